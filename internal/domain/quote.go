package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceDateLayout is the date format the rate source expects (YYYYMMDD).
const SourceDateLayout = "20060102"

// DateLayout is the date format used for storage and the HTTP API.
const DateLayout = "2006-01-02"

// RawQuote is a single record as published by the rate source.
type RawQuote struct {
	CurrencyCode string
	Rate         string // comma grouped, e.g. "1,312.50"
	Result       int
}

// Quote is a normalized rate quote.
type Quote struct {
	CurrencyCode string
	Rate         decimal.Decimal
	AsOf         time.Time
}

// RateTable is the ordered sequence of quotes published for one business day.
type RateTable struct {
	AsOf   time.Time
	Quotes []RawQuote
}

type FetchStatus int

const (
	FetchNoData FetchStatus = iota
	FetchValid
)

func (s FetchStatus) String() string {
	switch s {
	case FetchValid:
		return "valid"
	case FetchNoData:
		return "no data"
	default:
		return "unknown"
	}
}

// FetchResult is the outcome of a successful call to the rate source.
// Transport failures are reported as errors instead.
type FetchResult struct {
	Status FetchStatus
	Quotes []RawQuote
}

// Truncate drops the clock part of t, keeping its calendar date in t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
