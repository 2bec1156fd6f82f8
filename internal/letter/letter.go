package letter

// Status tracks a letter through its delivery lifecycle.
type Status string

const (
	StatusDraft     Status = "draft"     // still being written
	StatusScheduled Status = "scheduled" // send_date set, waiting for delivery
	StatusDelivered Status = "delivered" // delivery recorded
)

// ValidStatus reports whether s is a known letter status.
func ValidStatus(s Status) bool {
	return s == StatusDraft || s == StatusScheduled || s == StatusDelivered
}

// Letter represents a letter a user wrote to their future self.
type Letter struct {
	// ID is a ULID that uniquely identifies this letter
	ID string

	// Title is the letter's headline
	Title string

	// Goal is the aspiration the letter is written around
	Goal string

	// Content is the body of the letter (markdown)
	Content string

	// ContentChars is the character count of Content (runes, not bytes)
	ContentChars int

	// SendDate is the delivery date in YYYY-MM-DD form
	SendDate string

	// RecipientEmail is where the letter will be delivered (nullable)
	RecipientEmail *string

	// Status is the delivery lifecycle state
	Status Status

	// Tags is a list of tags for categorization (stored as JSON in DB)
	Tags []string

	// CreatedAt is the Unix timestamp when the letter was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the letter was last updated
	UpdatedAt int64

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64
}

// Milestone is a checkpoint on the way to a letter's goal.
type Milestone struct {
	// ID is a ULID that uniquely identifies this milestone
	ID string

	// LetterID is the owning letter
	LetterID string

	// Title is a short label for the checkpoint
	Title string

	// Description elaborates on what reaching it means (nullable)
	Description *string

	// Percentage is progress toward the goal when reached, 0-100
	Percentage int

	// TargetDate is the due date in YYYY-MM-DD form
	TargetDate string

	// Completed marks the milestone as reached
	Completed bool

	// Position orders milestones within a letter
	Position int

	// CreatedAt is the Unix timestamp when the milestone was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the milestone was last updated
	UpdatedAt int64
}

// MilestoneSuggestion is a milestone proposed by the enhancement service.
// TargetDate may be empty; ScheduleSuggestions fills the gaps.
type MilestoneSuggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Percentage  int    `json:"percentage"`
	TargetDate  string `json:"target_date"`
}
