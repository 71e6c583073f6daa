package calculation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/rpgo/budgetcast/internal/domain"
	"github.com/rpgo/budgetcast/pkg/dateutil"
)

// ForecastCache stores assembled account forecasts keyed by account id and input key.
// Callers must Invalidate an account whenever its transactions, transfers, templates
// or adjustments change.
type ForecastCache interface {
	Get(accountID, key string) (*domain.AccountForecast, bool, error)
	Put(accountID, key string, forecast *domain.AccountForecast) error
	Invalidate(accountID string) error
}

// ForecastCacheKey fingerprints the inputs that determine one account's forecast.
func ForecastCacheKey(req ForecastRequest, window domain.Window, acct domain.Account) (string, error) {
	fingerprint := struct {
		Account   domain.Account
		AsOf      string
		Window    domain.Window
		Templates []domain.RecurringTemplate
		Scenario  *domain.Scenario
		Extra     []domain.ProjectedTransaction
	}{
		Account:  acct,
		AsOf:     dateutil.FormatDate(req.AsOf),
		Window:   window,
		Scenario: req.Scenario,
	}
	for _, t := range req.Templates {
		if t.AccountID == acct.ID {
			fingerprint.Templates = append(fingerprint.Templates, t)
		}
	}
	for _, tx := range req.Extra {
		if tx.AccountID == acct.ID {
			fingerprint.Extra = append(fingerprint.Extra, tx)
		}
	}

	data, err := json.Marshal(fingerprint)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// MemoryCache is an in-process ForecastCache. The zero value is ready to use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]map[string]domain.AccountForecast
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]map[string]domain.AccountForecast)}
}

func (c *MemoryCache) Get(accountID, key string) (*domain.AccountForecast, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.entries[accountID][key]
	if !ok {
		return nil, false, nil
	}
	return &f, true, nil
}

func (c *MemoryCache) Put(accountID, key string, forecast *domain.AccountForecast) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]map[string]domain.AccountForecast)
	}
	if c.entries[accountID] == nil {
		c.entries[accountID] = make(map[string]domain.AccountForecast)
	}
	c.entries[accountID][key] = *forecast
	return nil
}

func (c *MemoryCache) Invalidate(accountID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, accountID)
	return nil
}
