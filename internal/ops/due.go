package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/futureletter/futureletter/internal/db"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// DueInput contains parameters for the Due operation.
type DueInput struct {
	AsOf string // optional YYYY-MM-DD, default: today
}

// DueOutput contains the result of the Due operation.
type DueOutput struct {
	Items []letter.Summary `json:"items"`
	AsOf  string           `json:"as_of"`
}

// Due lists scheduled letters whose send date has arrived.
func Due(database *sql.DB, input DueInput) (*DueOutput, error) {
	asOf := strings.TrimSpace(input.AsOf)
	if asOf == "" {
		asOf = time.Now().Format(letter.DateLayout)
	} else if !letter.ValidDate(asOf) {
		return nil, errors.NewInvalidRequest("as_of must be YYYY-MM-DD")
	}

	summaries, err := db.ListDueLetters(database, asOf)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []letter.Summary{}
	}

	return &DueOutput{Items: summaries, AsOf: asOf}, nil
}

// DeliverInput contains parameters for the Deliver operation.
type DeliverInput struct {
	ID string
}

// DeliverOutput contains the result of the Deliver operation.
type DeliverOutput struct {
	ID     string        `json:"id"`
	Status letter.Status `json:"status"`
}

// Deliver records that a scheduled letter reached its recipient.
func Deliver(ctx context.Context, database *sql.DB, input DeliverInput) (*DeliverOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.MarkDelivered(database, id); err != nil {
		return nil, err
	}

	return &DeliverOutput{ID: id, Status: letter.StatusDelivered}, nil
}
