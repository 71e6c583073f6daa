package output

import (
	"strconv"
	"time"

	"github.com/rpgo/budgetcast/pkg/dateutil"
	"github.com/rpgo/budgetcast/pkg/money"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats cents as USD with thousands separators.
func FormatCurrency(amount money.Cents) string { return amount.Format() }

// FormatPercentage formats a decimal percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return dateutil.FormatDate(t)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDate(*t)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
