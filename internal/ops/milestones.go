package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/futureletter/futureletter/internal/db"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// AddMilestoneInput contains parameters for the AddMilestone operation.
type AddMilestoneInput struct {
	LetterID    string // required
	Title       string // required
	Description *string
	Percentage  int    // 0-100
	TargetDate  string // required, YYYY-MM-DD
}

// AddMilestoneOutput contains the result of the AddMilestone operation.
type AddMilestoneOutput struct {
	ID        string           `json:"id"`
	Milestone letter.Milestone `json:"milestone"`
}

// AddMilestone appends a milestone to a letter.
func AddMilestone(database *sql.DB, input AddMilestoneInput) (*AddMilestoneOutput, error) {
	letterID := strings.TrimSpace(input.LetterID)
	if letterID == "" {
		return nil, errors.NewInvalidRequest("letter_id is required")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if !letter.ValidDate(input.TargetDate) {
		return nil, errors.NewInvalidRequest("target_date must be YYYY-MM-DD")
	}
	if input.Percentage < 0 || input.Percentage > 100 {
		return nil, errors.NewInvalidRequest("percentage must be between 0 and 100")
	}

	// Letter must exist and be active
	if _, err := db.GetLetterByID(database, letterID, false); err != nil {
		return nil, err
	}

	existing, err := db.ListMilestonesByLetter(database, letterID)
	if err != nil {
		return nil, err
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	m := &letter.Milestone{
		ID:          id,
		LetterID:    letterID,
		Title:       title,
		Description: cleanOptionalString(input.Description),
		Percentage:  input.Percentage,
		TargetDate:  input.TargetDate,
		Position:    len(existing),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := db.InsertMilestone(database, m); err != nil {
		return nil, err
	}

	return &AddMilestoneOutput{ID: id, Milestone: *m}, nil
}

// UpdateMilestoneInput contains parameters for the UpdateMilestone operation.
type UpdateMilestoneInput struct {
	ID string

	// Editable fields (nil = don't change)
	Title       *string
	Description *string
	Percentage  *int
	TargetDate  *string
	Completed   *bool
	Position    *int
}

// UpdateMilestoneOutput contains the result of the UpdateMilestone operation.
type UpdateMilestoneOutput struct {
	ID        string           `json:"id"`
	Milestone letter.Milestone `json:"milestone"`
}

// UpdateMilestone modifies an existing milestone.
func UpdateMilestone(database *sql.DB, input UpdateMilestoneInput) (*UpdateMilestoneOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if input.Title == nil && input.Description == nil && input.Percentage == nil &&
		input.TargetDate == nil && input.Completed == nil && input.Position == nil {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}

	m, err := db.GetMilestoneByID(database, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, errors.NewInvalidRequest("title must not be empty")
		}
		m.Title = title
	}
	if input.Description != nil {
		m.Description = cleanOptionalString(input.Description)
	}
	if input.Percentage != nil {
		if *input.Percentage < 0 || *input.Percentage > 100 {
			return nil, errors.NewInvalidRequest("percentage must be between 0 and 100")
		}
		m.Percentage = *input.Percentage
	}
	if input.TargetDate != nil {
		if !letter.ValidDate(*input.TargetDate) {
			return nil, errors.NewInvalidRequest("target_date must be YYYY-MM-DD")
		}
		m.TargetDate = *input.TargetDate
	}
	if input.Completed != nil {
		m.Completed = *input.Completed
	}
	if input.Position != nil {
		if *input.Position < 0 {
			return nil, errors.NewInvalidRequest("position must not be negative")
		}
		m.Position = *input.Position
	}

	if err := db.UpdateMilestoneByID(database, m); err != nil {
		return nil, err
	}

	return &UpdateMilestoneOutput{ID: m.ID, Milestone: *m}, nil
}

// DeleteMilestoneInput contains parameters for the DeleteMilestone operation.
type DeleteMilestoneInput struct {
	ID string
}

// DeleteMilestoneOutput contains the result of the DeleteMilestone operation.
type DeleteMilestoneOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DeleteMilestone removes a milestone.
func DeleteMilestone(database *sql.DB, input DeleteMilestoneInput) (*DeleteMilestoneOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if err := db.DeleteMilestone(database, id); err != nil {
		return nil, err
	}

	return &DeleteMilestoneOutput{ID: id, Deleted: true}, nil
}
