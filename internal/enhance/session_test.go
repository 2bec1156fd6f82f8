package enhance

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/futureletter/futureletter/internal/errors"
	"github.com/futureletter/futureletter/internal/letter"
)

// mockGateway is a scripted gateway for session tests.
type mockGateway struct {
	mu     sync.Mutex
	calls  int
	result *Result
	err    error

	// respond, when set, overrides result/err per request.
	respond func(req Request) (*Result, error)
}

func (m *mockGateway) Enhance(_ context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	m.calls++
	respond := m.respond
	result, err := m.result, m.err
	m.mu.Unlock()

	if respond != nil {
		return respond(req)
	}
	return result, err
}

func (m *mockGateway) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// sessionHarness wires a session to an in-memory draft and notice log.
type sessionHarness struct {
	mu          sync.Mutex
	draft       letter.Draft
	milestones  []letter.MilestoneSuggestion
	notices     []string
	fieldWrites map[Field]int

	session *Session
	gateway *mockGateway
	cache   *Cache
}

func newHarness(t *testing.T, draft letter.Draft, gw *mockGateway) *sessionHarness {
	t.Helper()

	h := &sessionHarness{draft: draft, gateway: gw, fieldWrites: make(map[Field]int)}
	h.cache = NewCache(time.Hour)

	session, err := NewSession(SessionConfig{
		Cache:   h.cache,
		Gateway: gw,
		ApplyField: func(field Field, value string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.fieldWrites[field]++
			switch field {
			case FieldTitle:
				h.draft.Title = value
			case FieldGoal:
				h.draft.Goal = value
			case FieldContent:
				h.draft.Content = value
			}
		},
		ApplyMilestones: func(suggestions []letter.MilestoneSuggestion) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.milestones = suggestions
		},
		Notify: func(msg string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.notices = append(h.notices, msg)
		},
		Now: func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	h.session = session
	return h
}

func (h *sessionHarness) currentDraft() letter.Draft {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.draft
}

func (h *sessionHarness) noticeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.notices)
}

func testDraft() letter.Draft {
	return letter.Draft{
		Title:    "T",
		Goal:     "Learn Spanish",
		Content:  "Dear future me...",
		SendDate: "2026-01-01",
	}
}

func testResult() *Result {
	return &Result{
		Letter: EnhancedLetter{
			Title:   "Learn Spanish Fluently",
			Goal:    "Hold a 30-minute conversation in Spanish",
			Content: "Dear future me, by the time you read this...",
		},
		Milestones: []letter.MilestoneSuggestion{
			{Title: "Complete A1", Description: "Finish the beginner course", Percentage: 25},
			{Title: "First conversation", Description: "Ten minutes with a native speaker", Percentage: 60},
		},
	}
}

func TestNewSession_RequiresDependencies(t *testing.T) {
	_, err := NewSession(SessionConfig{})
	require.Error(t, err)

	_, err = NewSession(SessionConfig{Cache: NewCache(time.Hour)})
	require.Error(t, err)

	_, err = NewSession(SessionConfig{
		Cache:           NewCache(time.Hour),
		Gateway:         &mockGateway{},
		ApplyField:      func(Field, string) {},
		ApplyMilestones: func([]letter.MilestoneSuggestion) {},
	})
	require.NoError(t, err)
}

func TestSession_GateOnEmptyGoal(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, letter.Draft{Title: "T", Content: "body"}, gw)

	err := h.session.Enhance(context.Background(), letter.Draft{Title: "T", Content: "body"})
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInputInsufficient))

	require.Equal(t, StatusIdle, h.session.Status())
	require.Equal(t, 0, gw.callCount(), "gateway must not be invoked for an ineligible draft")
	require.Equal(t, 1, h.noticeCount(), "user should see a guidance notice")
}

func TestSession_EnhanceSuccessAndApplyTitle(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)

	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))
	require.Equal(t, StatusSuccess, h.session.Status())
	require.NotNil(t, h.session.Result())
	require.False(t, h.session.FromCache())

	require.NoError(t, h.session.ApplyField(FieldTitle))
	require.Equal(t, "Learn Spanish Fluently", h.currentDraft().Title)
	require.Equal(t, []Field{FieldTitle}, h.session.AppliedFields())

	// Other fields untouched
	require.Equal(t, "Learn Spanish", h.currentDraft().Goal)
}

func TestSession_SuccessImpliesResult(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)

	// Idle: no result
	require.Nil(t, h.session.Result())

	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))
	require.Equal(t, StatusSuccess, h.session.Status())
	require.NotNil(t, h.session.Result())
}

func TestSession_CacheHitSkipsGateway(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)

	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))
	require.Equal(t, 1, gw.callCount())

	// Identical draft within the TTL: resolved from cache
	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))
	require.Equal(t, StatusSuccess, h.session.Status())
	require.True(t, h.session.FromCache())
	require.Equal(t, 1, gw.callCount(), "second enhance must not invoke the gateway")
}

func TestSession_CacheSharedAcrossSessions(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h1 := newHarness(t, testDraft(), gw)

	require.NoError(t, h1.session.Enhance(context.Background(), testDraft()))
	require.Equal(t, 1, gw.callCount())

	// A second session sharing the cache gets a hit for the same draft
	s2, err := NewSession(SessionConfig{
		Cache:           h1.cache,
		Gateway:         gw,
		ApplyField:      func(Field, string) {},
		ApplyMilestones: func([]letter.MilestoneSuggestion) {},
	})
	require.NoError(t, err)
	require.NoError(t, s2.Enhance(context.Background(), testDraft()))
	require.True(t, s2.FromCache())
	require.Equal(t, 1, gw.callCount())
}

func TestSession_GatewayFailureThenRetry(t *testing.T) {
	gw := &mockGateway{err: fmt.Errorf("service unavailable")}
	h := newHarness(t, testDraft(), gw)

	err := h.session.Enhance(context.Background(), testDraft())
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrGatewayFailure))
	require.Equal(t, StatusError, h.session.Status())
	require.Nil(t, h.session.Result())
	require.Error(t, h.session.Err())

	// Gateway recovers; user-initiated retry succeeds
	gw.mu.Lock()
	gw.err = nil
	gw.result = testResult()
	gw.mu.Unlock()

	require.NoError(t, h.session.Retry(context.Background()))
	require.Equal(t, StatusSuccess, h.session.Status())
	require.NotNil(t, h.session.Result())
}

func TestSession_RetryOnlyFromError(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)

	err := h.session.Retry(context.Background())
	require.Error(t, err, "retry from Idle is invalid")

	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))
	err = h.session.Retry(context.Background())
	require.Error(t, err, "retry from Success is invalid")
}

func TestSession_ApplyFieldIdempotent(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)
	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))

	require.NoError(t, h.session.ApplyField(FieldTitle))
	require.NoError(t, h.session.ApplyField(FieldTitle))

	h.mu.Lock()
	writes := h.fieldWrites[FieldTitle]
	h.mu.Unlock()
	require.Equal(t, 1, writes, "second apply of the same field must be a no-op")
	require.Equal(t, "Learn Spanish Fluently", h.currentDraft().Title)
	require.Equal(t, []Field{FieldTitle}, h.session.AppliedFields())
}

func TestSession_ApplyGuardsOutsideSuccess(t *testing.T) {
	gw := &mockGateway{err: fmt.Errorf("down")}
	h := newHarness(t, testDraft(), gw)

	// Idle: no-op, not a fault
	require.NoError(t, h.session.ApplyField(FieldTitle))
	require.Empty(t, h.session.AppliedFields())

	_ = h.session.Enhance(context.Background(), testDraft())
	require.Equal(t, StatusError, h.session.Status())

	require.NoError(t, h.session.ApplyField(FieldGoal))
	require.NoError(t, h.session.ApplyMilestones())
	require.Empty(t, h.session.AppliedFields())
	require.False(t, h.session.MilestonesApplied())
}

func TestSession_ApplyFieldUnknown(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)

	require.Error(t, h.session.ApplyField(Field("recipient")))
}

func TestSession_ApplyMilestones(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)
	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))

	require.NoError(t, h.session.ApplyMilestones())
	require.True(t, h.session.MilestonesApplied())
	require.Len(t, h.milestones, 2)

	// Suggestions without explicit dates got spaced, monotonically increasing
	d0, err := letter.ParseDate(h.milestones[0].TargetDate)
	require.NoError(t, err)
	d1, err := letter.ParseDate(h.milestones[1].TargetDate)
	require.NoError(t, err)
	require.True(t, d1.After(d0))

	// Idempotent
	h.milestones = nil
	require.NoError(t, h.session.ApplyMilestones())
	require.Nil(t, h.milestones, "second apply must not forward again")
}

func TestSession_ApplyMilestones_NoneSuggested(t *testing.T) {
	gw := &mockGateway{result: &Result{Letter: testResult().Letter}}
	h := newHarness(t, testDraft(), gw)
	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))

	before := h.noticeCount()
	require.NoError(t, h.session.ApplyMilestones())
	require.False(t, h.session.MilestonesApplied())
	require.Equal(t, before+1, h.noticeCount(), "empty suggestion list should notify")
}

func TestSession_ApplyAllRemaining(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)
	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))

	// Pre-apply the title; ApplyAllRemaining covers the rest
	require.NoError(t, h.session.ApplyField(FieldTitle))
	require.NoError(t, h.session.ApplyAllRemaining())

	require.Equal(t, []Field{FieldTitle, FieldGoal, FieldContent}, h.session.AppliedFields())
	require.True(t, h.session.MilestonesApplied())

	d := h.currentDraft()
	require.Equal(t, "Learn Spanish Fluently", d.Title)
	require.Equal(t, "Hold a 30-minute conversation in Spanish", d.Goal)

	// Everything applied: a second call only notifies
	before := h.noticeCount()
	require.NoError(t, h.session.ApplyAllRemaining())
	require.Equal(t, before+1, h.noticeCount())
}

func TestSession_ReEnhanceResetsApplied(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)

	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))
	require.NoError(t, h.session.ApplyField(FieldTitle))
	require.NotEmpty(t, h.session.AppliedFields())

	// A fresh request supersedes prior apply tracking
	changed := testDraft()
	changed.Goal = "Run a marathon"
	require.NoError(t, h.session.Enhance(context.Background(), changed))
	require.Empty(t, h.session.AppliedFields())
	require.False(t, h.session.MilestonesApplied())
}

func TestSession_StaleResponseDiscarded(t *testing.T) {
	slowStarted := make(chan struct{})
	slowRelease := make(chan struct{})

	resultA := &Result{Letter: EnhancedLetter{Title: "from draft A"}}
	resultB := &Result{Letter: EnhancedLetter{Title: "from draft B"}}

	gw := &mockGateway{}
	gw.respond = func(req Request) (*Result, error) {
		if req.Goal == "slow goal" {
			close(slowStarted)
			<-slowRelease
			return resultA, nil
		}
		return resultB, nil
	}

	draftA := letter.Draft{Goal: "slow goal", SendDate: "2026-01-01"}
	draftB := letter.Draft{Goal: "fast goal", SendDate: "2026-01-01"}

	h := newHarness(t, draftA, gw)

	done := make(chan error, 1)
	go func() {
		done <- h.session.Enhance(context.Background(), draftA)
	}()

	// Wait until A's request is in flight, then supersede it with B
	<-slowStarted
	require.NoError(t, h.session.Enhance(context.Background(), draftB))
	require.Equal(t, StatusSuccess, h.session.Status())
	require.Equal(t, "from draft B", h.session.Result().Letter.Title)

	// Let A's response arrive late; it must be discarded, not applied
	close(slowRelease)
	require.NoError(t, <-done)

	require.Equal(t, StatusSuccess, h.session.Status())
	require.Equal(t, "from draft B", h.session.Result().Letter.Title,
		"a superseded response must never overwrite newer state")
}

func TestSession_Reset(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	h := newHarness(t, testDraft(), gw)

	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))
	require.NoError(t, h.session.ApplyField(FieldTitle))

	h.session.Reset()
	require.Equal(t, StatusIdle, h.session.Status())
	require.Nil(t, h.session.Result())
	require.Empty(t, h.session.AppliedFields())

	// The cache survives a session reset
	require.NoError(t, h.session.Enhance(context.Background(), testDraft()))
	require.True(t, h.session.FromCache())
	require.Equal(t, 1, gw.callCount())
}

func TestEnhanceOnce(t *testing.T) {
	gw := &mockGateway{result: testResult()}
	cache := NewCache(time.Hour)
	now := func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

	// Gate applies here too
	_, _, err := EnhanceOnce(context.Background(), cache, gw, letter.Draft{Title: "T"}, now)
	require.Error(t, err)
	require.True(t, errors.Is(err, errors.ErrInputInsufficient))

	result, hit, err := EnhanceOnce(context.Background(), cache, gw, testDraft(), now)
	require.NoError(t, err)
	require.False(t, hit)
	require.Equal(t, "Learn Spanish Fluently", result.Letter.Title)
	require.NotEmpty(t, result.Milestones[0].TargetDate, "dates are spaced before returning")

	// Second call: cache hit, gateway untouched
	cached, hit, err := EnhanceOnce(context.Background(), cache, gw, testDraft(), now)
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, result, cached)
	require.Equal(t, 1, gw.callCount())
}
