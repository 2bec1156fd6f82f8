package letter

// Summary represents a letter's metadata without the full content.
// Used for browse operations (list, search, due) to reduce data transfer.
type Summary struct {
	// ID is a ULID that uniquely identifies this letter
	ID string `json:"id"`

	// Title is the letter's headline
	Title string `json:"title"`

	// Goal is the aspiration the letter is written around
	Goal string `json:"goal"`

	// ContentChars is the character count of the content (runes, not bytes)
	ContentChars int `json:"content_chars"`

	// SendDate is the delivery date in YYYY-MM-DD form
	SendDate string `json:"send_date"`

	// RecipientEmail is where the letter will be delivered (nullable)
	RecipientEmail *string `json:"recipient_email,omitempty"`

	// Status is the delivery lifecycle state
	Status Status `json:"status"`

	// Tags is a list of tags for categorization
	Tags []string `json:"tags,omitempty"`

	// MilestoneCount is how many milestones the letter carries
	MilestoneCount int `json:"milestone_count"`

	// CreatedAt is the Unix timestamp when the letter was created
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp when the letter was last updated
	UpdatedAt int64 `json:"updated_at"`

	// DeletedAt is the Unix timestamp for soft delete (nullable)
	DeletedAt *int64 `json:"deleted_at,omitempty"`
}

// ToSummary converts a Letter to a Summary by stripping the content.
func (l *Letter) ToSummary() Summary {
	return Summary{
		ID:             l.ID,
		Title:          l.Title,
		Goal:           l.Goal,
		ContentChars:   l.ContentChars,
		SendDate:       l.SendDate,
		RecipientEmail: l.RecipientEmail,
		Status:         l.Status,
		Tags:           l.Tags,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
		DeletedAt:      l.DeletedAt,
	}
}
