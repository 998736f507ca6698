package rate

import (
	"fmt"
	"fxsync/internal/domain"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseRate parses a comma grouped decimal such as "1,312.50".
func ParseRate(raw string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: missing rate", domain.ErrMalformedQuote)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: unparseable rate %q", domain.ErrMalformedQuote, raw)
	}
	return d, nil
}

// normalizeQuotes splits raw quotes into storable quotes and skipped items.
func normalizeQuotes(asOf time.Time, raw []domain.RawQuote) ([]domain.Quote, []domain.ItemResult) {
	quotes := make([]domain.Quote, 0, len(raw))
	var skipped []domain.ItemResult

	for _, rq := range raw {
		code := strings.TrimSpace(rq.CurrencyCode)
		if code == "" {
			skipped = append(skipped, domain.ItemResult{
				Status: domain.ItemSkipped,
				Reason: fmt.Sprintf("%s: missing currency code", domain.ErrMalformedQuote),
			})
			continue
		}
		rate, err := ParseRate(rq.Rate)
		if err != nil {
			skipped = append(skipped, domain.ItemResult{CurrencyCode: code, Status: domain.ItemSkipped, Reason: err.Error()})
			continue
		}
		quotes = append(quotes, domain.Quote{CurrencyCode: code, Rate: rate, AsOf: asOf})
	}
	return quotes, skipped
}
