package eximbank

import (
	"context"
	"encoding/json"
	"fmt"
	"fxsync/internal/domain"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultDataCode = "AP01"

// provider result codes
const (
	resultSuccess    = 1
	resultDataCode   = 2
	resultAuthKey    = 3
	resultDailyLimit = 4
)

type Client struct {
	http     *http.Client
	baseURL  string
	apiKey   string
	dataCode string
}

type apiRecord struct {
	Result       int    `json:"result"`
	CurUnit      string `json:"cur_unit"`
	CurName      string `json:"cur_nm"`
	DealBaseRate string `json:"deal_bas_r"`
}

// FetchRates returns the AP01 table published for date. An empty table or a
// data code result means the provider has nothing for that day.
func (c *Client) FetchRates(ctx context.Context, date time.Time) (domain.FetchResult, error) {
	searchDate := date.Format(domain.SourceDateLayout)

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("failed to parse base URL: %w", err)
	}
	q := u.Query()
	q.Set("authkey", c.apiKey)
	q.Set("searchdate", searchDate)
	q.Set("data", c.dataCode)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("failed to create request for date %s: %w", searchDate, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.FetchResult{}, fmt.Errorf("%w: failed to execute request for date %s: %s", domain.ErrSourceUnavailable, searchDate, redact(err.Error(), c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.FetchResult{}, fmt.Errorf("%w: unexpected status code %d for date %s", domain.ErrSourceUnavailable, resp.StatusCode, searchDate)
	}

	var body []apiRecord
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.FetchResult{}, fmt.Errorf("%w: failed to decode response for date %s: %s", domain.ErrSourceUnavailable, searchDate, err)
	}

	if len(body) == 0 {
		return domain.FetchResult{Status: domain.FetchNoData}, nil
	}

	switch body[0].Result {
	case resultSuccess:
	case resultDataCode:
		return domain.FetchResult{Status: domain.FetchNoData}, nil
	case resultAuthKey:
		return domain.FetchResult{}, fmt.Errorf("%w: api rejected the auth key for date %s", domain.ErrSourceUnavailable, searchDate)
	case resultDailyLimit:
		return domain.FetchResult{}, fmt.Errorf("%w: api daily request limit reached for date %s", domain.ErrSourceUnavailable, searchDate)
	default:
		return domain.FetchResult{}, fmt.Errorf("%w: api returned result %d for date %s", domain.ErrSourceUnavailable, body[0].Result, searchDate)
	}

	quotes := make([]domain.RawQuote, 0, len(body))
	for _, rec := range body {
		quotes = append(quotes, domain.RawQuote{
			CurrencyCode: strings.TrimSpace(rec.CurUnit),
			Rate:         strings.TrimSpace(rec.DealBaseRate),
			Result:       rec.Result,
		})
	}
	return domain.FetchResult{Status: domain.FetchValid, Quotes: quotes}, nil
}

// url.Error carries the full request URL, key included and query escaped.
func redact(msg, key string) string {
	if key == "" {
		return msg
	}
	if escaped := url.QueryEscape(key); escaped != key {
		msg = strings.ReplaceAll(msg, escaped, "***")
	}
	return strings.ReplaceAll(msg, key, "***")
}

// NewClient fails when apiKey is empty so a missing credential stops the
// process before any request is made.
func NewClient(httpClient *http.Client, baseURL, apiKey, dataCode string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.ErrCredentialMissing
	}
	if dataCode == "" {
		dataCode = DefaultDataCode
	}
	return &Client{http: httpClient, baseURL: baseURL, apiKey: apiKey, dataCode: dataCode}, nil
}
