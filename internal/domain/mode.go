package domain

import (
	"fmt"
	"strings"
)

type SyncMode string

const (
	ModeCurrent    SyncMode = "current"
	ModeHistorical SyncMode = "historical"
)

// ParseSyncMode maps an invocation argument to a mode; an empty value means current.
func ParseSyncMode(s string) (SyncMode, error) {
	switch SyncMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeCurrent:
		return ModeCurrent, nil
	case ModeHistorical:
		return ModeHistorical, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}
