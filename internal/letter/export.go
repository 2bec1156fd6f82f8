package letter

// ExportRecord represents a letter record in JSONL export format.
// It is used for parsing export files during import. One record carries the
// letter plus its milestones so an import rebuilds both.
type ExportRecord struct {
	// Header detection field - true only for header line
	FutureLetterExport bool `json:"_futureletter_export,omitempty"`

	// Header fields (only present in header line)
	SchemaVersion string `json:"schema_version,omitempty"`

	ID             string            `json:"id,omitempty"`
	Title          string            `json:"title,omitempty"`
	Goal           string            `json:"goal,omitempty"`
	Content        string            `json:"content,omitempty"`
	SendDate       string            `json:"send_date,omitempty"`
	RecipientEmail *string           `json:"recipient_email,omitempty"`
	Status         string            `json:"status,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Milestones     []MilestoneRecord `json:"milestones,omitempty"`
	CreatedAt      int64             `json:"created_at,omitempty"`
	UpdatedAt      int64             `json:"updated_at,omitempty"`
	DeletedAt      *int64            `json:"deleted_at,omitempty"`
}

// MilestoneRecord is a milestone inside an ExportRecord.
type MilestoneRecord struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Percentage  int     `json:"percentage"`
	TargetDate  string  `json:"target_date,omitempty"`
	Completed   bool    `json:"completed,omitempty"`
	Position    int     `json:"position"`
	CreatedAt   int64   `json:"created_at,omitempty"`
	UpdatedAt   int64   `json:"updated_at,omitempty"`
}

// ToLetter converts an ExportRecord to a Letter plus its milestones,
// recomputing derived fields.
func (r *ExportRecord) ToLetter() (*Letter, []Milestone) {
	status := Status(r.Status)
	if !ValidStatus(status) {
		status = StatusDraft
	}

	l := &Letter{
		ID:             r.ID,
		Title:          r.Title,
		Goal:           r.Goal,
		Content:        r.Content,
		ContentChars:   CountChars(r.Content), // Recompute
		SendDate:       r.SendDate,
		RecipientEmail: r.RecipientEmail,
		Status:         status,
		Tags:           r.Tags,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		DeletedAt:      r.DeletedAt,
	}

	milestones := make([]Milestone, 0, len(r.Milestones))
	for i, m := range r.Milestones {
		position := m.Position
		if position == 0 {
			position = i
		}
		milestones = append(milestones, Milestone{
			ID:          m.ID,
			LetterID:    r.ID,
			Title:       m.Title,
			Description: m.Description,
			Percentage:  m.Percentage,
			TargetDate:  m.TargetDate,
			Completed:   m.Completed,
			Position:    position,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		})
	}

	return l, milestones
}

// ToExportRecord converts a Letter and its milestones to an ExportRecord.
func ToExportRecord(l *Letter, milestones []Milestone) *ExportRecord {
	r := &ExportRecord{
		ID:             l.ID,
		Title:          l.Title,
		Goal:           l.Goal,
		Content:        l.Content,
		SendDate:       l.SendDate,
		RecipientEmail: l.RecipientEmail,
		Status:         string(l.Status),
		Tags:           l.Tags,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
		DeletedAt:      l.DeletedAt,
	}
	for _, m := range milestones {
		r.Milestones = append(r.Milestones, MilestoneRecord{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			Percentage:  m.Percentage,
			TargetDate:  m.TargetDate,
			Completed:   m.Completed,
			Position:    m.Position,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		})
	}
	return r
}
