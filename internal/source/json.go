package source

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	exportFileName   = "result.json"
	exportJSONLayout = "2006-01-02T15:04:05"
)

type exportFile struct {
	Name     string          `json:"name"`
	Messages []exportMessage `json:"messages"`
}

type exportMessage struct {
	ID           int64      `json:"id"`
	Type         string     `json:"type"`
	Date         string     `json:"date"`
	DateUnixtime string     `json:"date_unixtime"`
	Text         exportText `json:"text"`
}

// exportText is either a plain string or an array mixing strings and
// {"type": ..., "text": ...} entities.
type exportText string

func (t *exportText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = exportText(s)
		return nil
	}

	var parts []jsoniter.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	var sb strings.Builder
	for _, p := range parts {
		var s string
		if err := json.Unmarshal(p, &s); err == nil {
			sb.WriteString(s)
			continue
		}
		var entity struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(p, &entity); err != nil {
			return err
		}
		sb.WriteString(entity.Text)
	}
	*t = exportText(sb.String())
	return nil
}

// JSONExport reads result.json of a machine-readable chat export.
type JSONExport struct {
	path   string
	filter Filter
	loc    *time.Location
}

// NewJSONExport accepts either the export directory or the result.json file itself.
func NewJSONExport(path string, filter Filter, loc *time.Location) *JSONExport {
	if loc == nil {
		loc = time.UTC
	}
	return &JSONExport{path: path, filter: filter, loc: loc}
}

func (j *JSONExport) Fetch(ctx context.Context, intervals []types.DateInterval) ([]types.Message, error) {
	path := j.path
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, exportFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var export exportFile
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	all := make([]types.Message, 0, len(export.Messages))
	for _, m := range export.Messages {
		if m.Type != "" && m.Type != "message" {
			continue
		}
		date, err := j.messageDate(m)
		if err != nil {
			logger.Warn(ctx, "Skipping message with unreadable date", "id", m.ID, "date", m.Date, "error", err.Error())
			continue
		}
		all = append(all, types.Message{ID: m.ID, Date: date, Text: strings.TrimSpace(string(m.Text))})
	}

	out := j.filter.Apply(all, intervals)
	logger.Debug(ctx, "JSON export scanned", "chat", export.Name, "messages", len(all), "selected", len(out))
	return out, nil
}

func (j *JSONExport) messageDate(m exportMessage) (time.Time, error) {
	if m.DateUnixtime != "" {
		sec, err := strconv.ParseInt(m.DateUnixtime, 10, 64)
		if err == nil {
			return time.Unix(sec, 0).In(j.loc), nil
		}
	}
	return time.ParseInLocation(exportJSONLayout, m.Date, j.loc)
}
