package check

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/okian/rankplot/internal/domain/rank"
	"github.com/okian/rankplot/internal/domain/types"
	"github.com/okian/rankplot/pkg/logger"
)

// checkPage fetches the HTML page and the current frame and verifies that
// the inline chart draws one mark per point and the legend runs from the
// highest rank to the lowest.
func checkPage(ctx context.Context, client *httpClient, stats *Stats) error {
	log := logger.Named("check")

	var frame types.Frame
	if err := client.getJSON(ctx, "/api/view", &frame); err != nil {
		return fmt.Errorf("%w: %w", ErrPage, err)
	}
	body, err := client.get(ctx, "/")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPage, err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: parse page: %w", ErrPage, err)
	}

	marks := doc.Find("svg#chart g.marks circle").Length()
	stats.PageMarks = marks
	// The frame may move between the two requests if someone else is
	// changing the selection; compare only when it did not.
	if id, _ := doc.Find("body").Attr("data-frame"); id == frame.ID && marks != frame.Encoding.Points {
		return fmt.Errorf("%w: %d marks for %d points", ErrPage, marks, frame.Encoding.Points)
	}

	var legend []string
	doc.Find("aside.legend li").Each(func(_ int, s *goquery.Selection) {
		legend = append(legend, strings.TrimSpace(s.Text()))
	})
	order := rank.LegendOrder()
	if len(legend) != len(order) {
		return fmt.Errorf("%w: legend has %d entries, want %d", ErrPage, len(legend), len(order))
	}
	for i, b := range order {
		if legend[i] != b.DisplayName() {
			return fmt.Errorf("%w: legend entry %d is %q, want %q", ErrPage, i, legend[i], b.DisplayName())
		}
	}

	log.Info(ctx, "page verified", logger.Int("marks", marks), logger.String("frame", frame.ID))
	return nil
}
