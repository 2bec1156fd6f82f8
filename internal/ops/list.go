package ops

import (
	"database/sql"

	"github.com/futureletter/futureletter/internal/db"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Status         string // optional filter: draft, scheduled, delivered
	Limit          int    // default: 20, max: 100
	Offset         int    // default: 0
	IncludeDeleted bool
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []letter.Summary `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Sort       string           `json:"sort"`
}

// List retrieves letter summaries with pagination.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	var status *letter.Status
	if input.Status != "" {
		s := letter.Status(input.Status)
		if !letter.ValidStatus(s) {
			return nil, errors.NewInvalidRequest("status must be one of: draft, scheduled, delivered")
		}
		status = &s
	}

	limit := clampLimit(input.Limit)
	offset := max(input.Offset, 0)

	summaries, total, err := db.ListLetters(database, status, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	// Ensure we return an empty array rather than nil
	if summaries == nil {
		summaries = []letter.Summary{}
	}

	hasMore := offset+len(summaries) < total

	return &ListOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Sort: "updated_at_desc",
	}, nil
}
