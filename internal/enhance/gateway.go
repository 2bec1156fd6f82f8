package enhance

import (
	"context"

	"github.com/futureletter/futureletter/internal/letter"
)

// Request carries the draft fields sent to the enhancement service.
// The send date is included so the service can place milestone target dates
// before the delivery date.
type Request struct {
	Title    string `json:"title"`
	Goal     string `json:"goal"`
	Content  string `json:"content"`
	SendDate string `json:"send_date"`
}

// EnhancedLetter holds the improved field values returned by the service.
type EnhancedLetter struct {
	Title   string `json:"title"`
	Goal    string `json:"goal"`
	Content string `json:"content"`
}

// Result is an enhancement response. Immutable once received; sessions and
// the cache share pointers to it but never mutate it.
type Result struct {
	Letter     EnhancedLetter               `json:"enhanced_letter"`
	Milestones []letter.MilestoneSuggestion `json:"suggested_milestones"`
}

// Gateway is the boundary to the remote enhancement service. Any error is
// treated uniformly as a gateway failure; the session does not distinguish
// error subtypes.
type Gateway interface {
	Enhance(ctx context.Context, req Request) (*Result, error)
}

// requestFor builds a gateway request from a trimmed draft.
func requestFor(d letter.Draft) Request {
	t := d.Trimmed()
	return Request{
		Title:    t.Title,
		Goal:     t.Goal,
		Content:  t.Content,
		SendDate: t.SendDate,
	}
}
