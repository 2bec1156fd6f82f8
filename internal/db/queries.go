package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// InsertLetter stores a new letter in the database.
func InsertLetter(db *sql.DB, l *letter.Letter) error {
	tagsJSON, err := tagsToJSON(l.Tags)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO letters (
			id, title, goal, content, content_chars, send_date,
			recipient_email, status, tags_json, created_at, updated_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`

	_, err = db.Exec(query,
		l.ID, l.Title, l.Goal, l.Content, l.ContentChars, l.SendDate,
		toNullString(l.RecipientEmail), string(l.Status), tagsJSON,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetLetterByID retrieves a letter by its ULID.
// If includeDeleted is false, soft-deleted letters are excluded.
func GetLetterByID(db *sql.DB, id string, includeDeleted bool) (*letter.Letter, error) {
	query := `
		SELECT id, title, goal, content, content_chars, send_date,
			recipient_email, status, tags_json, created_at, updated_at, deleted_at
		FROM letters
		WHERE id = ?
	`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}

	row := db.QueryRow(query, id)
	l, err := scanLetter(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return l, nil
}

// UpdateLetterByID updates mutable fields of an existing letter.
// Sets updated_at to the current timestamp. Does NOT change: id, created_at.
func UpdateLetterByID(db *sql.DB, l *letter.Letter) error {
	tagsJSON, err := tagsToJSON(l.Tags)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()

	query := `
		UPDATE letters
		SET title = ?, goal = ?, content = ?, content_chars = ?,
			send_date = ?, recipient_email = ?, status = ?, tags_json = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query,
		l.Title, l.Goal, l.Content, l.ContentChars,
		l.SendDate, toNullString(l.RecipientEmail), string(l.Status), tagsJSON, now,
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

	l.UpdatedAt = now

	return nil
}

// SoftDeleteLetter marks a letter as deleted by setting deleted_at.
func SoftDeleteLetter(db *sql.DB, id string) error {
	now := time.Now().Unix()

	query := `
		UPDATE letters
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := db.Exec(query, now, id)
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

// summaryColumns is the projection shared by the browse queries, including a
// correlated milestone count.
const summaryColumns = `
	id, title, goal, content_chars, send_date, recipient_email, status,
	tags_json, created_at, updated_at, deleted_at,
	(SELECT COUNT(*) FROM milestones m WHERE m.letter_id = letters.id) AS milestone_count
`

// ListLetters retrieves letter summaries ordered by most recently updated,
// optionally filtered by status. Returns the page plus the total match count.
func ListLetters(db *sql.DB, status *letter.Status, limit, offset int, includeDeleted bool) ([]letter.Summary, int, error) {
	where := "1=1"
	args := []any{}
	if !includeDeleted {
		where += " AND deleted_at IS NULL"
	}
	if status != nil {
		where += " AND status = ?"
		args = append(args, string(*status))
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM letters WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := "SELECT " + summaryColumns + " FROM letters WHERE " + where +
		" ORDER BY updated_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	summaries, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// SearchLetters finds letters whose title, goal, or content contains the
// query text (case-insensitive LIKE).
func SearchLetters(db *sql.DB, queryText string, limit, offset int, includeDeleted bool) ([]letter.Summary, int, error) {
	where := "(title LIKE ? ESCAPE '\\' OR goal LIKE ? ESCAPE '\\' OR content LIKE ? ESCAPE '\\')"
	pattern := "%" + escapeLike(queryText) + "%"
	args := []any{pattern, pattern, pattern}
	if !includeDeleted {
		where += " AND deleted_at IS NULL"
	}

	var total int
	if err := db.QueryRow("SELECT COUNT(*) FROM letters WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := "SELECT " + summaryColumns + " FROM letters WHERE " + where +
		" ORDER BY updated_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	summaries, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

// ListDueLetters retrieves scheduled letters whose send date has arrived
// (send_date <= today), oldest first.
func ListDueLetters(db *sql.DB, today string) ([]letter.Summary, error) {
	query := "SELECT " + summaryColumns + ` FROM letters
		WHERE status = ? AND send_date <= ? AND deleted_at IS NULL
		ORDER BY send_date ASC, updated_at ASC`

	rows, err := db.Query(query, string(letter.StatusScheduled), today)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// MarkDelivered records delivery of a scheduled letter.
// Returns CONFLICT if the letter exists but is not in the scheduled state.
func MarkDelivered(db *sql.DB, id string) error {
	result, err := db.Exec(
		"UPDATE letters SET status = ?, updated_at = ? WHERE id = ? AND status = ? AND deleted_at IS NULL",
		string(letter.StatusDelivered), time.Now().Unix(), id, string(letter.StatusScheduled),
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		// Distinguish missing from wrong-state for a useful error
		if _, getErr := GetLetterByID(db, id, false); getErr != nil {
			return getErr
		}
		return errors.NewConflict("letter is not scheduled for delivery")
	}

	return nil
}

// PurgeDeleted permanently deletes soft-deleted letters and their milestones.
// If olderThanDays is set, only letters deleted more than N days ago go.
func PurgeDeleted(db *sql.DB, olderThanDays *int) (int, error) {
	where := "deleted_at IS NOT NULL"
	args := []any{}
	if olderThanDays != nil {
		cutoff := time.Now().AddDate(0, 0, -*olderThanDays).Unix()
		where += " AND deleted_at < ?"
		args = append(args, cutoff)
	}

	// Milestones first; foreign_keys cascade covers drivers that enforce it,
	// but the explicit delete keeps the count honest either way.
	if _, err := db.Exec(
		"DELETE FROM milestones WHERE letter_id IN (SELECT id FROM letters WHERE "+where+")", args...,
	); err != nil {
		return 0, errors.NewInternal(err)
	}

	result, err := db.Exec("DELETE FROM letters WHERE "+where, args...)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	count, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(count), nil
}

// scanLetter scans a single row into a Letter struct.
func scanLetter(row *sql.Row) (*letter.Letter, error) {
	var (
		l         letter.Letter
		status    string
		recipient sql.NullString
		tagsJSON  sql.NullString
		deletedAt sql.NullInt64
	)

	err := row.Scan(
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

// scanSummaries drains rows from a summaryColumns query.
func scanSummaries(rows *sql.Rows) ([]letter.Summary, error) {
	var summaries []letter.Summary
	for rows.Next() {
		var (
			s         letter.Summary
			status    string
			recipient sql.NullString
			tagsJSON  sql.NullString
			deletedAt sql.NullInt64
		)
		err := rows.Scan(
			&s.ID, &s.Title, &s.Goal, &s.ContentChars, &s.SendDate,
			&recipient, &status, &tagsJSON, &s.CreatedAt, &s.UpdatedAt, &deletedAt,
			&s.MilestoneCount,
		)
		if err != nil {
			return nil, errors.NewInternal(err)
		}

		s.Status = letter.Status(status)
		s.RecipientEmail = fromNullString(recipient)
		if deletedAt.Valid {
			s.DeletedAt = &deletedAt.Int64
		}
		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &s.Tags); err != nil {
				return nil, errors.NewInternal(err)
			}
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return summaries, nil
}

// escapeLike escapes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// tagsToJSON converts a tag slice to a nullable JSON column value.
func tagsToJSON(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
