package enhance

import (
	"context"
	"sync"
	"time"

	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// Field names an independently-applicable enhancement target.
type Field string

const (
	FieldTitle   Field = "title"
	FieldGoal    Field = "goal"
	FieldContent Field = "content"
)

// Fields lists all applicable fields in apply order.
var Fields = []Field{FieldTitle, FieldGoal, FieldContent}

// ValidField reports whether f is a known enhancement field.
func ValidField(f Field) bool {
	return f == FieldTitle || f == FieldGoal || f == FieldContent
}

// SessionStatus is the lifecycle state of one enhancement attempt.
type SessionStatus string

const (
	StatusIdle    SessionStatus = "idle"
	StatusLoading SessionStatus = "loading"
	StatusSuccess SessionStatus = "success"
	StatusError   SessionStatus = "error"
)

// SessionConfig carries the explicit dependencies of a Session. The cache,
// gateway, and apply callbacks are owned by whoever composes the editing
// surface; the session never reaches for shared globals.
type SessionConfig struct {
	// Cache avoids redundant remote calls. Required; may be shared across sessions.
	Cache *Cache

	// Gateway is the remote enhancement service boundary. Required.
	Gateway Gateway

	// ApplyField writes a suggested value back into the caller's draft. Required.
	ApplyField func(field Field, value string)

	// ApplyMilestones forwards accepted milestone suggestions to the caller. Required.
	ApplyMilestones func(suggestions []letter.MilestoneSuggestion)

	// Notify surfaces user-visible notices ("enhancement failed", "nothing to
	// apply"). Optional; presentation is the caller's concern.
	Notify func(msg string)

	// Now anchors milestone date spacing. Defaults to time.Now.
	Now func() time.Time
}

// Session coordinates one enhancement lifecycle and the incremental
// application of its results to a draft. Create one per open editing form;
// nothing persists across sessions beyond the fingerprint cache.
//
// All methods are safe for concurrent use. Only the most recently initiated
// Enhance call may commit its outcome: a response belonging to a superseded
// request is discarded, never applied over newer state.
type Session struct {
	cfg SessionConfig

	mu                sync.Mutex
	status            SessionStatus
	result            *Result
	draft             letter.Draft
	seq               uint64
	applied           map[Field]bool
	applying          map[Field]bool
	milestonesApplied bool
	fromCache         bool
	lastErr           error
}

// NewSession creates a session for the progressive per-field flow.
// For a one-shot bulk enhancement without apply tracking, use EnhanceOnce.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Cache == nil {
		return nil, errors.NewInvalidRequest("session requires a cache")
	}
	if cfg.Gateway == nil {
		return nil, errors.NewInvalidRequest("session requires a gateway")
	}
	if cfg.ApplyField == nil || cfg.ApplyMilestones == nil {
		return nil, errors.NewInvalidRequest("session requires apply callbacks")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Session{
		cfg:      cfg,
		status:   StatusIdle,
		applied:  make(map[Field]bool),
		applying: make(map[Field]bool),
	}, nil
}

// Enhance runs one enhancement attempt for the given draft. Ineligible drafts
// (empty goal) are refused before any state change: the session stays where it
// was and the caller gets an INPUT_INSUFFICIENT error. A fresh call always
// supersedes an in-flight or prior one.
//
// On a cache hit the session commits Success directly without touching the
// gateway. On a miss it transitions to Loading, calls the gateway, and
// resolves to Success or Error; it never stays in Loading.
func (s *Session) Enhance(ctx context.Context, draft letter.Draft) error {
	if !draft.Eligible() {
		s.notify("add a goal to your letter before enhancing it")
		return errors.NewInputInsufficient()
	}

	fp := ComputeFingerprint(draft)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.draft = draft
	s.result = nil
	s.fromCache = false
	s.lastErr = nil
	s.resetAppliedLocked()

	if cached := s.cfg.Cache.Get(fp); cached != nil {
		s.status = StatusSuccess
		s.result = cached
		s.fromCache = true
		s.mu.Unlock()
		return nil
	}

	s.status = StatusLoading
	s.mu.Unlock()

	result, err := s.cfg.Gateway.Enhance(ctx, requestFor(draft))

	s.mu.Lock()
	if s.seq != seq {
		// A newer Enhance superseded this request; its outcome must not
		// overwrite newer state.
		s.mu.Unlock()
		return nil
	}

	if err != nil {
		s.status = StatusError
		s.lastErr = err
		s.mu.Unlock()
		s.notify("enhancement failed; use retry to try again")
		return errors.NewGatewayFailure(err)
	}

	s.commitResultLocked(fp, result)
	s.mu.Unlock()
	return nil
}

// commitResultLocked normalizes, caches, and installs a successful result.
// Caller holds s.mu.
func (s *Session) commitResultLocked(fp Fingerprint, result *Result) {
	normalized := &Result{
		Letter:     result.Letter,
		Milestones: letter.ScheduleSuggestions(result.Milestones, s.cfg.Now()),
	}
	s.cfg.Cache.Put(fp, normalized)
	s.status = StatusSuccess
	s.result = normalized
}

// Retry re-invokes Enhance with the same draft. Valid only from Error.
func (s *Session) Retry(ctx context.Context) error {
	s.mu.Lock()
	if s.status != StatusError {
		s.mu.Unlock()
		return errors.NewInvalidRequest("retry is only valid after a failed enhancement")
	}
	draft := s.draft
	s.mu.Unlock()

	return s.Enhance(ctx, draft)
}

// ApplyField writes the suggested value for one field into the caller's draft
// and marks it applied. Idempotent: applying an already-applied (or currently
// applying) field is a no-op, as is calling it outside Success.
func (s *Session) ApplyField(field Field) error {
	if !ValidField(field) {
		return errors.NewInvalidRequest("unknown field: " + string(field))
	}

	s.mu.Lock()
	if s.status != StatusSuccess || s.result == nil {
		s.mu.Unlock()
		return nil
	}
	if s.applied[field] || s.applying[field] {
		s.mu.Unlock()
		return nil
	}
	s.applying[field] = true
	value := s.suggestedValueLocked(field)
	s.mu.Unlock()

	// Callback runs unlocked so it may read session state.
	s.cfg.ApplyField(field, value)

	s.mu.Lock()
	s.applied[field] = true
	delete(s.applying, field)
	s.mu.Unlock()
	return nil
}

// ApplyMilestones forwards the full suggestion list to the caller and marks
// milestones applied. Idempotent; a no-op when the gateway returned none.
func (s *Session) ApplyMilestones() error {
	s.mu.Lock()
	if s.status != StatusSuccess || s.result == nil {
		s.mu.Unlock()
		return nil
	}
	if s.milestonesApplied {
		s.mu.Unlock()
		return nil
	}
	if len(s.result.Milestones) == 0 {
		s.mu.Unlock()
		s.notify("no milestone suggestions to apply")
		return nil
	}
	suggestions := make([]letter.MilestoneSuggestion, len(s.result.Milestones))
	copy(suggestions, s.result.Milestones)
	s.milestonesApplied = true
	s.mu.Unlock()

	s.cfg.ApplyMilestones(suggestions)
	return nil
}

// ApplyAllRemaining applies every field not yet applied, then milestones if
// any were suggested and not yet applied. Notifies "nothing to apply" when
// everything is already in the draft.
func (s *Session) ApplyAllRemaining() error {
	s.mu.Lock()
	if s.status != StatusSuccess || s.result == nil {
		s.mu.Unlock()
		return nil
	}

	var pending []Field
	for _, f := range Fields {
		if !s.applied[f] && !s.applying[f] {
			pending = append(pending, f)
		}
	}
	pendingMilestones := !s.milestonesApplied && len(s.result.Milestones) > 0
	s.mu.Unlock()

	if len(pending) == 0 && !pendingMilestones {
		s.notify("nothing to apply; all suggestions are already in your letter")
		return nil
	}

	for _, f := range pending {
		if err := s.ApplyField(f); err != nil {
			return err
		}
	}
	if pendingMilestones {
		return s.ApplyMilestones()
	}
	return nil
}

// Reset returns the session to Idle, clears apply tracking, and invalidates
// interest in any in-flight request. Cached results survive.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.status = StatusIdle
	s.result = nil
	s.draft = letter.Draft{}
	s.fromCache = false
	s.lastErr = nil
	s.resetAppliedLocked()
}

// Status returns the current lifecycle state.
func (s *Session) Status() SessionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Result returns the current enhancement result, or nil unless Success.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Applied reports whether a field's suggestion has been written to the draft.
func (s *Session) Applied(field Field) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied[field]
}

// AppliedFields returns the applied fields in canonical order.
func (s *Session) AppliedFields() []Field {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Field, 0, len(s.applied))
	for _, f := range Fields {
		if s.applied[f] {
			out = append(out, f)
		}
	}
	return out
}

// Applying reports whether a field apply is currently in progress.
func (s *Session) Applying(field Field) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applying[field]
}

// MilestonesApplied reports whether the suggestion list has been forwarded.
func (s *Session) MilestonesApplied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.milestonesApplied
}

// FromCache reports whether the current result came from the fingerprint
// cache rather than a gateway call.
func (s *Session) FromCache() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fromCache
}

// Err returns the gateway error behind an Error status, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// resetAppliedLocked clears apply tracking. Caller holds s.mu.
func (s *Session) resetAppliedLocked() {
	s.applied = make(map[Field]bool)
	s.applying = make(map[Field]bool)
	s.milestonesApplied = false
}

// suggestedValueLocked returns the suggested value for a field. Caller holds
// s.mu and has checked s.result != nil.
func (s *Session) suggestedValueLocked(field Field) string {
	switch field {
	case FieldTitle:
		return s.result.Letter.Title
	case FieldGoal:
		return s.result.Letter.Goal
	case FieldContent:
		return s.result.Letter.Content
	}
	return ""
}

func (s *Session) notify(msg string) {
	if s.cfg.Notify != nil {
		s.cfg.Notify(msg)
	}
}

// EnhanceOnce is the bulk one-shot flow: gate, cache lookup, gateway call,
// date spacing, cache store. It returns the normalized result without any
// apply tracking. The second return value reports a cache hit.
func EnhanceOnce(ctx context.Context, cache *Cache, gw Gateway, draft letter.Draft, now func() time.Time) (*Result, bool, error) {
	if !draft.Eligible() {
		return nil, false, errors.NewInputInsufficient()
	}
	if now == nil {
		now = time.Now
	}

	fp := ComputeFingerprint(draft)
	if cached := cache.Get(fp); cached != nil {
		return cached, true, nil
	}

	result, err := gw.Enhance(ctx, requestFor(draft))
	if err != nil {
		return nil, false, errors.NewGatewayFailure(err)
	}

	normalized := &Result{
		Letter:     result.Letter,
		Milestones: letter.ScheduleSuggestions(result.Milestones, now()),
	}
	cache.Put(fp, normalized)
	return normalized, false, nil
}
