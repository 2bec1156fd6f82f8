package db

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// StreamForExport returns rows over letters for export streaming.
// Caller must Close the rows.
func StreamForExport(ctx context.Context, database *sql.DB, includeDeleted bool) (*sql.Rows, error) {
	query := `
		SELECT id, title, goal, content, content_chars, send_date,
			recipient_email, status, tags_json, created_at, updated_at, deleted_at
		FROM letters
	`
	if !includeDeleted {
		query += " WHERE deleted_at IS NULL"
	}
	query += " ORDER BY created_at ASC"

	rows, err := database.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rows, nil
}

// ScanLetterFromRows scans a letter from rows produced by StreamForExport.
func ScanLetterFromRows(rows *sql.Rows) (*letter.Letter, error) {
	var (
		l         letter.Letter
		status    string
		recipient sql.NullString
		tagsJSON  sql.NullString
		deletedAt sql.NullInt64
	)

	err := rows.Scan(
		&l.ID, &l.Title, &l.Goal, &l.Content, &l.ContentChars, &l.SendDate,
		&recipient, &status, &tagsJSON, &l.CreatedAt, &l.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Status = letter.Status(status)
	l.RecipientEmail = fromNullString(recipient)
	if deletedAt.Valid {
		l.DeletedAt = &deletedAt.Int64
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &l.Tags); err != nil {
			return nil, err
		}
	}

	return &l, nil
}

// InsertLetterTx inserts a letter within a transaction. Used by atomic import.
func InsertLetterTx(tx *sql.Tx, l *letter.Letter) error {
	tagsJSON, err := tagsToJSON(l.Tags)
	if err != nil {
		return errors.NewInternal(err)
	}

	var deletedAt sql.NullInt64
	if l.DeletedAt != nil {
		deletedAt = sql.NullInt64{Int64: *l.DeletedAt, Valid: true}
	}

	query := `
		INSERT INTO letters (
			id, title, goal, content, content_chars, send_date,
			recipient_email, status, tags_json, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = tx.Exec(query,
		l.ID, l.Title, l.Goal, l.Content, l.ContentChars, l.SendDate,
		toNullString(l.RecipientEmail), string(l.Status), tagsJSON,
		l.CreatedAt, l.UpdatedAt, deletedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// InsertMilestoneTx inserts a milestone within a transaction.
func InsertMilestoneTx(tx *sql.Tx, m *letter.Milestone) error {
	query := `
		INSERT INTO milestones (
			id, letter_id, title, description, percentage, target_date,
			completed, position, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := tx.Exec(query,
		m.ID, m.LetterID, m.Title, toNullString(m.Description),
		m.Percentage, m.TargetDate, boolToInt(m.Completed), m.Position,
		m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// UpdateLetterFull replaces every column of an existing letter, timestamps
// included. Used by import mode:replace to restore records verbatim.
func UpdateLetterFull(database *sql.DB, l *letter.Letter) error {
	tagsJSON, err := tagsToJSON(l.Tags)
	if err != nil {
		return errors.NewInternal(err)
	}

	var deletedAt sql.NullInt64
	if l.DeletedAt != nil {
		deletedAt = sql.NullInt64{Int64: *l.DeletedAt, Valid: true}
	}

	query := `
		UPDATE letters
		SET title = ?, goal = ?, content = ?, content_chars = ?, send_date = ?,
			recipient_email = ?, status = ?, tags_json = ?,
			created_at = ?, updated_at = ?, deleted_at = ?
		WHERE id = ?
	`

	result, err := database.Exec(query,
		l.Title, l.Goal, l.Content, l.ContentChars, l.SendDate,
		toNullString(l.RecipientEmail), string(l.Status), tagsJSON,
		l.CreatedAt, l.UpdatedAt, deletedAt,
		l.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(l.ID)
	}

	return nil
}
