// Package source reads journal messages from Telegram Desktop chat exports.
package source

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"trading-journal-stats/internal/interfaces"
	"trading-journal-stats/internal/store"
	"trading-journal-stats/internal/types"
)

// ErrNoPath is returned when the export location is not configured.
var ErrNoPath = errors.New("source path is not set")

// Filter keeps the messages that belong in a report.
type Filter struct {
	Keyword string
}

// Apply returns the messages that contain the keyword and fall inside any of the
// intervals, ordered by date. A message matching several intervals appears once.
func (f Filter) Apply(msgs []types.Message, intervals []types.DateInterval) []types.Message {
	var out []types.Message
	for _, m := range msgs {
		if !strings.Contains(m.Text, f.Keyword) {
			continue
		}
		if !inAny(m.Date, intervals) {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func inAny(t time.Time, intervals []types.DateInterval) bool {
	for _, iv := range intervals {
		if iv.Contains(t) {
			return true
		}
	}
	return false
}

// New builds the message source configured in cfg.
func New(cfg *store.Config) (interfaces.MessageSource, error) {
	if cfg.Source.Path == "" {
		return nil, ErrNoPath
	}
	filter := Filter{Keyword: cfg.Source.Keyword}
	switch cfg.Source.Kind {
	case store.SourceHTML:
		return NewHTMLExport(cfg.Source.Path, filter, cfg.SourceLocation()), nil
	case store.SourceJSON:
		return NewJSONExport(cfg.Source.Path, filter, cfg.SourceLocation()), nil
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", cfg.Source.Kind)
	}
}
