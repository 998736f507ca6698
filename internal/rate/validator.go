package rate

import (
	"errors"
	"fxsync/internal/domain"
	"regexp"
	"time"
)

const defaultHistoryDays = 30

var (
	ErrCodeRequired  = errors.New("currency code is required")
	ErrCodeInvalid   = errors.New("currency code is invalid")
	ErrFromInvalid   = errors.New("from must be a date formatted as YYYY-MM-DD")
	ErrToInvalid     = errors.New("to must be a date formatted as YYYY-MM-DD")
	ErrRangeReversed = errors.New("from must not be after to")
)

// codes look like "USD" or "JPY(100)"
var codePattern = regexp.MustCompile(`^[A-Z]{3}(\(\d+\))?$`)

type RequestValidator struct {
	now func() time.Time
}

func (v *RequestValidator) ValidateCode(code string) error {
	if code == "" {
		return ErrCodeRequired
	}
	if !codePattern.MatchString(code) {
		return ErrCodeInvalid
	}
	return nil
}

// ValidateRange parses the optional from/to query values. A missing "to" means
// today, a missing "from" means 30 days before "to".
func (v *RequestValidator) ValidateRange(rawFrom, rawTo string) (time.Time, time.Time, error) {
	// today in the clock's zone, as a UTC date like the parsed values
	y, m, d := v.now().Date()
	to := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if rawTo != "" {
		parsed, err := time.Parse(domain.DateLayout, rawTo)
		if err != nil {
			return time.Time{}, time.Time{}, ErrToInvalid
		}
		to = parsed
	}

	from := to.AddDate(0, 0, -defaultHistoryDays)
	if rawFrom != "" {
		parsed, err := time.Parse(domain.DateLayout, rawFrom)
		if err != nil {
			return time.Time{}, time.Time{}, ErrFromInvalid
		}
		from = parsed
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, ErrRangeReversed
	}
	return from, to, nil
}

func NewValidator(now func() time.Time) *RequestValidator {
	if now == nil {
		now = time.Now
	}
	return &RequestValidator{now: now}
}
