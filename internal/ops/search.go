package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/futureletter/futureletter/internal/db"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Query          string // required
	Limit          int    // default: 20, max: 100
	Offset         int    // default: 0
	IncludeDeleted bool
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Items      []letter.Summary `json:"items"`
	Pagination Pagination       `json:"pagination"`
	Query      string           `json:"query"`
}

// Search finds letters whose title, goal, or content contains the query.
func Search(ctx context.Context, database *sql.DB, input SearchInput) (*SearchOutput, error) {
	query := strings.TrimSpace(input.Query)
	if query == "" {
		return nil, errors.NewInvalidRequest("query is required")
	}

	limit := clampLimit(input.Limit)
	offset := max(input.Offset, 0)

	summaries, total, err := db.SearchLetters(database, query, limit, offset, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	if summaries == nil {
		summaries = []letter.Summary{}
	}

	hasMore := offset+len(summaries) < total

	return &SearchOutput{
		Items: summaries,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: hasMore,
			Total:   total,
		},
		Query: query,
	}, nil
}
