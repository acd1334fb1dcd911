package rate

import (
	"time"

	"github.com/shopspring/decimal"
)

// Conversion is the result of converting an amount between two currencies.
type Conversion struct {
	Source        string
	Target        string
	Amount        decimal.Decimal
	Rate          decimal.Decimal
	Converted     decimal.Decimal
	ValuationDate time.Time
}
