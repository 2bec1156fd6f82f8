package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/futureletter/futureletter/internal/config"
	"github.com/futureletter/futureletter/internal/db"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Title          string // required
	Goal           string
	Content        string
	SendDate       string // required, YYYY-MM-DD
	RecipientEmail *string
	Tags           []string
	Schedule       bool // create as scheduled instead of draft
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	ID     string        `json:"id"`
	Letter letter.Letter `json:"letter"`
}

// Create stores a new letter.
func Create(ctx context.Context, database *sql.DB, cfg *config.Config, input CreateInput) (*CreateOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if input.SendDate == "" {
		return nil, errors.NewInvalidRequest("send_date is required")
	}
	if !letter.ValidDate(input.SendDate) {
		return nil, errors.NewInvalidRequest("send_date must be YYYY-MM-DD")
	}

	input.RecipientEmail = cleanOptionalString(input.RecipientEmail)
	if input.RecipientEmail != nil {
		if err := validateEmail(*input.RecipientEmail); err != nil {
			return nil, err
		}
	}

	contentChars := letter.CountChars(input.Content)
	if contentChars > cfg.LetterMaxChars {
		return nil, errors.NewLetterTooLarge(cfg.LetterMaxChars, contentChars)
	}

	status := letter.StatusDraft
	if input.Schedule {
		status = letter.StatusScheduled
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	l := &letter.Letter{
		ID:             id,
		Title:          title,
		Goal:           strings.TrimSpace(input.Goal),
		Content:        input.Content,
		ContentChars:   contentChars,
		SendDate:       input.SendDate,
		RecipientEmail: input.RecipientEmail,
		Status:         status,
		Tags:           input.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := db.InsertLetter(database, l); err != nil {
		return nil, err
	}

	return &CreateOutput{ID: id, Letter: *l}, nil
}
