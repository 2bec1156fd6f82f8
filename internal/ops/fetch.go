package ops

import (
	"database/sql"
	"strings"

	"github.com/futureletter/futureletter/internal/db"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeDeleted bool
	IncludeContent *bool // default: true (nil means default)
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	letter.Letter                    // embedded (copy, not pointer)
	Milestones    []letter.Milestone `json:"milestones"`
}

// Fetch retrieves a letter and its milestones by ID.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	l, err := db.GetLetterByID(database, id, input.IncludeDeleted)
	if err != nil {
		return nil, err
	}

	milestones, err := db.ListMilestonesByLetter(database, id)
	if err != nil {
		return nil, err
	}
	if milestones == nil {
		milestones = []letter.Milestone{}
	}

	output := &FetchOutput{
		Letter:     *l, // copy, not pointer
		Milestones: milestones,
	}

	includeContent := true
	if input.IncludeContent != nil {
		includeContent = *input.IncludeContent
	}
	if !includeContent {
		output.Content = ""
	}

	return output, nil
}
