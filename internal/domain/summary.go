package domain

import "time"

type ItemStatus string

const (
	ItemWritten   ItemStatus = "written"
	ItemSkipped   ItemStatus = "skipped"
	ItemDuplicate ItemStatus = "duplicate"
)

// ItemResult records what happened to one quote of a batch.
type ItemResult struct {
	CurrencyCode string
	Status       ItemStatus
	Reason       string
}

// BatchSummary aggregates the item results of one store call.
type BatchSummary struct {
	AsOf       time.Time
	Written    int
	Skipped    int
	Duplicates int
	Purged     int64
	Items      []ItemResult
}

func (s *BatchSummary) Add(item ItemResult) {
	switch item.Status {
	case ItemWritten:
		s.Written++
	case ItemSkipped:
		s.Skipped++
	case ItemDuplicate:
		s.Duplicates++
	}
	s.Items = append(s.Items, item)
}
