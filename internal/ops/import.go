package ops

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/futureletter/futureletter/internal/config"
	"github.com/futureletter/futureletter/internal/db"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// ImportMode controls collision behavior during import.
type ImportMode string

const (
	ImportModeError   ImportMode = "error"   // fail on collision (atomic)
	ImportModeReplace ImportMode = "replace" // overwrite on collision
	ImportModeSkip    ImportMode = "skip"    // keep existing, skip incoming
)

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path string     // required
	Mode ImportMode // default: error
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors"`
}

// ImportError represents an error that occurred during import.
type ImportError struct {
	Line    int    `json:"line,omitempty"`
	ID      string `json:"id,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import imports letters from a JSONL export file.
func Import(database *sql.DB, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	if input.Path == "" {
		return nil, errors.NewInvalidRequest("path is required")
	}
	if input.Mode == "" {
		input.Mode = ImportModeError
	}
	if input.Mode != ImportModeError && input.Mode != ImportModeReplace && input.Mode != ImportModeSkip {
		return nil, errors.NewInvalidRequest("mode must be one of: error, replace, skip")
	}

	if err := ValidatePath(input.Path, PathCheckRead, cfg); err != nil {
		return nil, err
	}

	file, err := openFileNoFollowRead(input.Path)
	if err != nil {
		if _, ok := err.(*errors.LetterError); ok {
			return nil, err
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open import file: %w", err))
	}
	defer file.Close()

	// Parse all records first
	records, parseErrors := parseExportFile(file)

	// For mode:error, fail on any parse errors
	if input.Mode == ImportModeError && len(parseErrors) > 0 {
		return &ImportOutput{Errors: parseErrors}, nil
	}

	switch input.Mode {
	case ImportModeError:
		return importModeError(database, records)
	default:
		return importModeLenient(database, records, parseErrors, input.Mode)
	}
}

// parseExportFile parses a JSONL export file into records.
func parseExportFile(file io.Reader) ([]letter.ExportRecord, []ImportError) {
	var records []letter.ExportRecord
	var parseErrors []ImportError

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()

		var record letter.ExportRecord
		if err := json.Unmarshal(line, &record); err != nil {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "PARSE_ERROR",
				Message: fmt.Sprintf("invalid JSON: %v", err),
			})
			continue
		}

		// Skip header line
		if record.FutureLetterExport {
			continue
		}

		// Skip lines with no ID (invalid)
		if record.ID == "" {
			parseErrors = append(parseErrors, ImportError{
				Line:    lineNum,
				Code:    "INVALID_RECORD",
				Message: "missing id field",
			})
			continue
		}

		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		parseErrors = append(parseErrors, ImportError{
			Line:    lineNum,
			Code:    "READ_ERROR",
			Message: fmt.Sprintf("failed to read file: %v", err),
		})
	}

	return records, parseErrors
}

// importModeError imports all records atomically, aborting on any collision.
func importModeError(database *sql.DB, records []letter.ExportRecord) (*ImportOutput, error) {
	tx, err := database.Begin()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer tx.Rollback() //nolint:errcheck

	imported := 0
	for _, record := range records {
		existing, err := db.GetLetterByID(database, record.ID, true)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			// Abort on first collision for mode:error
			return &ImportOutput{
				Errors: []ImportError{{
					ID:      record.ID,
					Code:    "ID_COLLISION",
					Message: fmt.Sprintf("letter with id %q already exists", record.ID),
				}},
			}, nil
		}

		l, milestones := record.ToLetter()
		if err := db.InsertLetterTx(tx, l); err != nil {
			return nil, err
		}
		for i := range milestones {
			if err := db.InsertMilestoneTx(tx, &milestones[i]); err != nil {
				return nil, err
			}
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &ImportOutput{Imported: imported}, nil
}

// importModeLenient handles replace and skip modes record by record.
func importModeLenient(database *sql.DB, records []letter.ExportRecord, parseErrors []ImportError, mode ImportMode) (*ImportOutput, error) {
	imported := 0
	skipped := len(parseErrors)
	importErrors := append([]ImportError{}, parseErrors...)

	for _, record := range records {
		existing, err := db.GetLetterByID(database, record.ID, true)
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			return nil, err
		}

		l, milestones := record.ToLetter()

		if existing != nil {
			if mode == ImportModeSkip {
				skipped++
				continue
			}
			// mode:replace - restore the record verbatim, milestones included
			if err := db.UpdateLetterFull(database, l); err != nil {
				return nil, err
			}
			if err := db.ReplaceMilestones(database, l.ID, milestones); err != nil {
				return nil, err
			}
			imported++
			continue
		}

		if err := db.InsertLetter(database, l); err != nil {
			importErrors = append(importErrors, ImportError{
				ID:      l.ID,
				Code:    "INSERT_FAILED",
				Message: fmt.Sprintf("failed to insert: %v", err),
			})
			skipped++
			continue
		}
		for i := range milestones {
			if err := db.InsertMilestone(database, &milestones[i]); err != nil {
				return nil, err
			}
		}
		imported++
	}

	return &ImportOutput{
		Imported: imported,
		Skipped:  skipped,
		Errors:   importErrors,
	}, nil
}
