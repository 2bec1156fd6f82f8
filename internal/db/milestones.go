package db

import (
	"database/sql"
	"time"

	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// InsertMilestone stores a new milestone row.
func InsertMilestone(db *sql.DB, m *letter.Milestone) error {
	query := `
		INSERT INTO milestones (
			id, letter_id, title, description, percentage, target_date,
			completed, position, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		m.ID, m.LetterID, m.Title, toNullString(m.Description),
		m.Percentage, m.TargetDate, boolToInt(m.Completed), m.Position,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// ListMilestonesByLetter retrieves a letter's milestones ordered by position.
func ListMilestonesByLetter(db *sql.DB, letterID string) ([]letter.Milestone, error) {
	query := `
		SELECT id, letter_id, title, description, percentage, target_date,
			completed, position, created_at, updated_at
		FROM milestones
		WHERE letter_id = ?
		ORDER BY position ASC, created_at ASC
	`

	rows, err := db.Query(query, letterID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var milestones []letter.Milestone
	for rows.Next() {
		var (
			m           letter.Milestone
			description sql.NullString
			completed   int
		)
		err := rows.Scan(
			&m.ID, &m.LetterID, &m.Title, &description, &m.Percentage,
			&m.TargetDate, &completed, &m.Position, &m.CreatedAt, &m.UpdatedAt,
		)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		m.Description = fromNullString(description)
		m.Completed = completed != 0
		milestones = append(milestones, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return milestones, nil
}

// GetMilestoneByID retrieves a single milestone.
func GetMilestoneByID(db *sql.DB, id string) (*letter.Milestone, error) {
	query := `
		SELECT id, letter_id, title, description, percentage, target_date,
			completed, position, created_at, updated_at
		FROM milestones
		WHERE id = ?
	`

	var (
		m           letter.Milestone
		description sql.NullString
		completed   int
	)
	err := db.QueryRow(query, id).Scan(
		&m.ID, &m.LetterID, &m.Title, &description, &m.Percentage,
		&m.TargetDate, &completed, &m.Position, &m.CreatedAt, &m.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	m.Description = fromNullString(description)
	m.Completed = completed != 0
	return &m, nil
}

// UpdateMilestoneByID updates a milestone's mutable fields.
func UpdateMilestoneByID(db *sql.DB, m *letter.Milestone) error {
	now := time.Now().Unix()

	query := `
		UPDATE milestones
		SET title = ?, description = ?, percentage = ?, target_date = ?,
			completed = ?, position = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.Exec(query,
		m.Title, toNullString(m.Description), m.Percentage, m.TargetDate,
		boolToInt(m.Completed), m.Position, now, m.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(m.ID)
	}

	m.UpdatedAt = now

	return nil
}

// DeleteMilestone removes a milestone row.
func DeleteMilestone(db *sql.DB, id string) error {
	result, err := db.Exec("DELETE FROM milestones WHERE id = ?", id)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// ReplaceMilestones swaps a letter's milestone set atomically.
// Used when applying enhancement suggestions wholesale.
func ReplaceMilestones(db *sql.DB, letterID string, milestones []letter.Milestone) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.NewInternal(err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM milestones WHERE letter_id = ?", letterID); err != nil {
		return errors.NewInternal(err)
	}

	insert := `
		INSERT INTO milestones (
			id, letter_id, title, description, percentage, target_date,
			completed, position, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, m := range milestones {
		_, err := tx.Exec(insert,
			m.ID, letterID, m.Title, toNullString(m.Description),
			m.Percentage, m.TargetDate, boolToInt(m.Completed), m.Position,
			m.CreatedAt, m.UpdatedAt,
		)
		if err != nil {
			return errors.NewInternal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
