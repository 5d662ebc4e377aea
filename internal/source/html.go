package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"trading-journal-stats/internal/logger"
	"trading-journal-stats/internal/types"
)

const (
	messageSelector = "div.message.default"
	dateSelector    = "div.date"
	textSelector    = "div.text"

	// Title of the date element, e.g. "01.07.2024 10:15:00 UTC+03:00".
	exportDateLayout = "02.01.2006 15:04:05 UTC-07:00"
	// Older exports carry no offset.
	exportDateLayoutLocal = "02.01.2006 15:04:05"
)

// HTMLExport reads the messages*.html pages of an HTML chat export.
type HTMLExport struct {
	dir    string
	filter Filter
	loc    *time.Location
}

func NewHTMLExport(dir string, filter Filter, loc *time.Location) *HTMLExport {
	if loc == nil {
		loc = time.UTC
	}
	return &HTMLExport{dir: dir, filter: filter, loc: loc}
}

func (h *HTMLExport) Fetch(ctx context.Context, intervals []types.DateInterval) ([]types.Message, error) {
	pages, err := filepath.Glob(filepath.Join(h.dir, "messages*.html"))
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no messages*.html in %s: %w", h.dir, os.ErrNotExist)
	}

	var all []types.Message
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msgs, err := h.readPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(page), err)
		}
		all = append(all, msgs...)
	}

	out := h.filter.Apply(all, intervals)
	logger.Debug(ctx, "HTML export scanned", "pages", len(pages), "messages", len(all), "selected", len(out))
	return out, nil
}

func (h *HTMLExport) readPage(ctx context.Context, path string) ([]types.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, err
	}

	var msgs []types.Message
	doc.Find(messageSelector).Each(func(_ int, s *goquery.Selection) {
		text := s.Find(textSelector).First()
		if text.Length() == 0 {
			return
		}
		title, ok := s.Find(dateSelector).First().Attr("title")
		if !ok {
			return
		}
		date, err := h.parseDate(title)
		if err != nil {
			logger.Warn(ctx, "Skipping message with unreadable date", "title", title, "error", err.Error())
			return
		}

		id, _ := strconv.ParseInt(strings.TrimPrefix(s.AttrOr("id", ""), "message"), 10, 64)
		msgs = append(msgs, types.Message{ID: id, Date: date, Text: messageText(text)})
	})
	return msgs, nil
}

func (h *HTMLExport) parseDate(title string) (time.Time, error) {
	title = strings.TrimSpace(title)
	if t, err := time.Parse(exportDateLayout, title); err == nil {
		return t, nil
	}
	return time.ParseInLocation(exportDateLayoutLocal, title, h.loc)
}

// messageText returns the visible text with line breaks kept.
func messageText(s *goquery.Selection) string {
	s = s.Clone()
	s.Find("br").ReplaceWithHtml("\n")
	return strings.TrimSpace(s.Text())
}
