package domain

import "errors"

var (
	ErrRateNotFound        = errors.New("rate not found")
	ErrSourceUnavailable   = errors.New("rate source unavailable")
	ErrExhaustedLookback   = errors.New("no business day with published rates within lookback window")
	ErrMalformedQuote      = errors.New("malformed quote")
	ErrCredentialMissing   = errors.New("exchange rate api key is required")
	ErrUnknownMode         = errors.New("unknown sync mode")
	ErrDuplicateHistorical = errors.New("historical rate already recorded")
)
