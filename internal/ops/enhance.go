package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/futureletter/futureletter/internal/config"
	"github.com/futureletter/futureletter/internal/db"
	"github.com/futureletter/futureletter/internal/enhance"
	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// EnhanceInput contains parameters for the Enhance operation.
type EnhanceInput struct {
	ID              string
	Force           bool     // bypass the fingerprint cache
	ApplyFields     []string // enhanced fields to persist: title, goal, content
	ApplyMilestones bool     // replace the letter's milestones with suggestions
	ApplyAll        bool     // apply every suggestion
}

// EnhanceOutput contains the result of the Enhance operation.
type EnhanceOutput struct {
	ID                string         `json:"id"`
	FromCache         bool           `json:"from_cache"`
	Suggestions       enhance.Result `json:"suggestions"`
	AppliedFields     []string       `json:"applied_fields"`
	MilestonesApplied bool           `json:"milestones_applied"`
	Notices           []string       `json:"notices,omitempty"`
	Letter            *letter.Letter `json:"letter,omitempty"` // present when anything was persisted
}

// Enhance runs a remote enhancement for a stored letter and optionally
// persists accepted suggestions. Without apply flags it only returns the
// suggestions; the letter is untouched.
func Enhance(ctx context.Context, database *sql.DB, cfg *config.Config, cache *enhance.Cache, gateway enhance.Gateway, input EnhanceInput) (*EnhanceOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	fields, err := resolveApplyFields(input)
	if err != nil {
		return nil, err
	}
	applyMilestones := input.ApplyMilestones || input.ApplyAll

	l, err := db.GetLetterByID(database, id, false)
	if err != nil {
		return nil, err
	}

	draft := letter.Draft{
		Title:    l.Title,
		Goal:     l.Goal,
		Content:  l.Content,
		SendDate: l.SendDate,
	}

	if input.Force {
		cache.Delete(enhance.ComputeFingerprint(draft))
	}

	var (
		notices     []string
		suggestions []letter.MilestoneSuggestion
	)
	sessionCfg := enhance.SessionConfig{
		Cache:   cache,
		Gateway: gateway,
		ApplyField: func(field enhance.Field, value string) {
			switch field {
			case enhance.FieldTitle:
				l.Title = value
			case enhance.FieldGoal:
				l.Goal = value
			case enhance.FieldContent:
				l.Content = value
				l.ContentChars = letter.CountChars(value)
			}
		},
		ApplyMilestones: func(s []letter.MilestoneSuggestion) {
			suggestions = s
		},
		Notify: func(msg string) {
			notices = append(notices, msg)
		},
	}

	session, err := enhance.NewSession(sessionCfg)
	if err != nil {
		return nil, err
	}

	if err := session.Enhance(ctx, draft); err != nil {
		return nil, err
	}

	result := session.Result()
	if result == nil {
		return nil, errors.NewInternal(nil)
	}

	for _, f := range fields {
		if err := session.ApplyField(f); err != nil {
			return nil, err
		}
	}
	if applyMilestones {
		if err := session.ApplyMilestones(); err != nil {
			return nil, err
		}
	}

	output := &EnhanceOutput{
		ID:                l.ID,
		FromCache:         session.FromCache(),
		Suggestions:       *result,
		MilestonesApplied: session.MilestonesApplied(),
		Notices:           notices,
	}
	for _, f := range session.AppliedFields() {
		output.AppliedFields = append(output.AppliedFields, string(f))
	}

	// Persist whatever was accepted
	if len(output.AppliedFields) > 0 {
		if l.ContentChars > cfg.LetterMaxChars {
			return nil, errors.NewLetterTooLarge(cfg.LetterMaxChars, l.ContentChars)
		}
		if err := db.UpdateLetterByID(database, l); err != nil {
			return nil, err
		}
		output.Letter = l
	}

	if session.MilestonesApplied() && len(suggestions) > 0 {
		milestones, err := milestonesFromSuggestions(l.ID, suggestions)
		if err != nil {
			return nil, err
		}
		if err := db.ReplaceMilestones(database, l.ID, milestones); err != nil {
			return nil, err
		}
		output.Letter = l
	}

	return output, nil
}

// resolveApplyFields validates the requested field names.
func resolveApplyFields(input EnhanceInput) ([]enhance.Field, error) {
	if input.ApplyAll {
		return enhance.Fields, nil
	}

	fields := make([]enhance.Field, 0, len(input.ApplyFields))
	for _, name := range input.ApplyFields {
		f := enhance.Field(strings.ToLower(strings.TrimSpace(name)))
		if !enhance.ValidField(f) {
			return nil, errors.NewInvalidRequest("unknown apply field: " + name)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// milestonesFromSuggestions materializes suggestion rows for persistence.
func milestonesFromSuggestions(letterID string, suggestions []letter.MilestoneSuggestion) ([]letter.Milestone, error) {
	now := time.Now().Unix()
	milestones := make([]letter.Milestone, 0, len(suggestions))
	for i, s := range suggestions {
		id, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		m := letter.Milestone{
			ID:         id,
			LetterID:   letterID,
			Title:      s.Title,
			Percentage: s.Percentage,
			TargetDate: s.TargetDate,
			Position:   i,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if desc := strings.TrimSpace(s.Description); desc != "" {
			m.Description = &desc
		}
		milestones = append(milestones, m)
	}
	return milestones, nil
}
