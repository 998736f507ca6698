package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrentRate is the latest known rate of a currency. There is exactly one per code.
type CurrentRate struct {
	CurrencyCode string
	Rate         decimal.Decimal
	AsOf         time.Time
	WrittenAt    time.Time
}

// HistoricalRate is the rate of a currency on a given business day.
// It is never updated once written.
type HistoricalRate struct {
	CurrencyCode string
	Rate         decimal.Decimal
	RecordDate   time.Time
}
