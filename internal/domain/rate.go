package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of valuation dates.
const DateLayout = "2006-01-02"

// RateScale is the number of fractional digits a stored rate keeps.
const RateScale = 6

type ExchangeRate struct {
	ID            int64
	Source        string
	Target        string
	ValuationDate time.Time
	Value         decimal.Decimal
}

// Triple is the logical key of one rate fact.
type Triple struct {
	Source string
	Target string
	Date   time.Time
}

func (t Triple) String() string {
	return t.Source + "/" + t.Target + "@" + t.Date.Format(DateLayout)
}

// Day truncates t to its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
