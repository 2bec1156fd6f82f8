package ops

import (
	"database/sql"
	"strings"

	"github.com/futureletter/futureletter/internal/config"
	"github.com/futureletter/futureletter/internal/db"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	ID string

	// Editable fields (nil = don't change)
	Title          *string
	Goal           *string
	Content        *string
	SendDate       *string
	RecipientEmail *string
	Tags           *[]string
	Status         *string
}

// UpdateOutput contains the result of the Update operation.
type UpdateOutput struct {
	ID     string        `json:"id"`
	Letter letter.Letter `json:"letter"`
}

// Update modifies an existing letter.
func Update(database *sql.DB, cfg *config.Config, input UpdateInput) (*UpdateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	// Validate at least one editable field is provided
	if input.Title == nil && input.Goal == nil && input.Content == nil &&
		input.SendDate == nil && input.RecipientEmail == nil &&
		input.Tags == nil && input.Status == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	// Fetch existing letter (active only)
	l, err := db.GetLetterByID(database, id, false)
	if err != nil {
		return nil, err
	}

	// Apply updates
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.NewInvalidRequest("title must not be empty")
		}
		l.Title = title
	}

	if input.Goal != nil {
		l.Goal = strings.TrimSpace(*input.Goal)
	}

	if input.Content != nil {
		contentChars := letter.CountChars(*input.Content)
		if contentChars > cfg.LetterMaxChars {
			return nil, errors.NewLetterTooLarge(cfg.LetterMaxChars, contentChars)
		}
		l.Content = *input.Content
		l.ContentChars = contentChars
	}

	if input.SendDate != nil {
		if !letter.ValidDate(*input.SendDate) {
			return nil, errors.NewInvalidRequest("send_date must be YYYY-MM-DD")
		}
		l.SendDate = *input.SendDate
	}

	if input.RecipientEmail != nil {
		cleaned := cleanOptionalString(input.RecipientEmail)
		if cleaned != nil {
			if err := validateEmail(*cleaned); err != nil {
				return nil, err
			}
		}
		l.RecipientEmail = cleaned
	}

	if input.Tags != nil {
		l.Tags = *input.Tags
	}

	if input.Status != nil {
		status := letter.Status(*input.Status)
		if err := validateStatus(status); err != nil {
			return nil, err
		}
		l.Status = status
	}

	// Persist update
	if err := db.UpdateLetterByID(database, l); err != nil {
		return nil, err
	}

	return &UpdateOutput{ID: l.ID, Letter: *l}, nil
}
