package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/rpgo/budgetcast/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// Configuration is the complete input document.
type Configuration struct {
	AsOf        time.Time           `yaml:"as_of" json:"as_of"`
	Accounts    []Account           `yaml:"accounts" json:"accounts"`
	Templates   []RecurringTemplate `yaml:"templates" json:"templates"`
	Scenarios   []Scenario          `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
	PayoffPlans []PayoffPlan        `yaml:"payoff_plans,omitempty" json:"payoff_plans,omitempty"`
}

type configurationYAML struct {
	AsOf        string              `yaml:"as_of,omitempty"`
	Accounts    []Account           `yaml:"accounts"`
	Templates   []RecurringTemplate `yaml:"templates"`
	Scenarios   []Scenario          `yaml:"scenarios,omitempty"`
	PayoffPlans []PayoffPlan        `yaml:"payoff_plans,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for Configuration
func (c *Configuration) UnmarshalYAML(value *yaml.Node) error {
	var aux configurationYAML
	if err := value.Decode(&aux); err != nil {
		return err
	}

	c.Accounts = aux.Accounts
	c.Templates = aux.Templates
	c.Scenarios = aux.Scenarios
	c.PayoffPlans = aux.PayoffPlans
	c.AsOf = time.Time{}

	if aux.AsOf != "" {
		asOf, err := dateutil.ParseDate(aux.AsOf)
		if err != nil {
			return fmt.Errorf("as_of: %w", err)
		}
		c.AsOf = asOf
	}

	// adjustments inherit their scenario's id unless they name one
	for i := range c.Scenarios {
		for j := range c.Scenarios[i].Adjustments {
			if c.Scenarios[i].Adjustments[j].ScenarioID == "" {
				c.Scenarios[i].Adjustments[j].ScenarioID = c.Scenarios[i].ID
			}
		}
	}
	return nil
}

// MarshalYAML writes as_of as YYYY-MM-DD.
func (c Configuration) MarshalYAML() (interface{}, error) {
	aux := configurationYAML{
		Accounts:    c.Accounts,
		Templates:   c.Templates,
		Scenarios:   c.Scenarios,
		PayoffPlans: c.PayoffPlans,
	}
	if !c.AsOf.IsZero() {
		aux.AsOf = dateutil.FormatDate(c.AsOf)
	}
	return aux, nil
}

// Scenario finds a scenario by id or, case-insensitively, by name.
func (c *Configuration) Scenario(key string) (*Scenario, bool) {
	for i := range c.Scenarios {
		if c.Scenarios[i].ID == key || strings.EqualFold(c.Scenarios[i].Name, key) {
			return &c.Scenarios[i], true
		}
	}
	return nil, false
}

// PayoffPlan finds a payoff plan by name.
func (c *Configuration) PayoffPlan(name string) (*PayoffPlan, bool) {
	for i := range c.PayoffPlans {
		if strings.EqualFold(c.PayoffPlans[i].Name, name) {
			return &c.PayoffPlans[i], true
		}
	}
	return nil, false
}

// Account finds an account by id.
func (c *Configuration) Account(id string) (*Account, bool) {
	for i := range c.Accounts {
		if c.Accounts[i].ID == id {
			return &c.Accounts[i], true
		}
	}
	return nil, false
}
