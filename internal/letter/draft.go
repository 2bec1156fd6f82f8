package letter

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire form for send and target dates.
const DateLayout = "2006-01-02"

// Draft holds the in-progress letter fields a user is editing.
// The editing surface owns it; the enhancement session only reads it
// to build requests and writes fields back through caller callbacks.
type Draft struct {
	Title    string
	Goal     string
	Content  string
	SendDate string
}

// Trimmed returns a copy with surrounding whitespace removed from every field.
func (d Draft) Trimmed() Draft {
	return Draft{
		Title:    strings.TrimSpace(d.Title),
		Goal:     strings.TrimSpace(d.Goal),
		Content:  strings.TrimSpace(d.Content),
		SendDate: strings.TrimSpace(d.SendDate),
	}
}

// Eligible reports whether the draft qualifies for enhancement.
// The goal field is the minimal-input gate: title or content alone do not qualify.
func (d Draft) Eligible() bool {
	return strings.TrimSpace(d.Goal) != ""
}

// Empty reports whether every enhanceable field is blank.
func (d Draft) Empty() bool {
	t := d.Trimmed()
	return t.Title == "" && t.Goal == "" && t.Content == ""
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// CountChars returns the character count as runes (not bytes).
// This correctly handles multi-byte UTF-8 characters.
func CountChars(text string) int {
	return utf8.RuneCountInString(text)
}
