package cmds

import (
	"strings"
	"time"
)

// Cmd is a titled, tagged text snippet. ID is the document key and is never
// stored as a field; the timestamps are persisted with the document but are
// not part of the JSON shape.
type Cmd struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	Tags      []string  `json:"tags" bson:"tags"`
	CreatedAt time.Time `json:"-" bson:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"-" bson:"updatedAt,omitempty"`
}

// NewCmd is the create input: a Cmd minus its id. Tags must already be
// normalized.
type NewCmd struct {
	Title   string
	Content string
	Tags    []string
}

// Patch carries the fields of a partial update. Nil fields are left untouched.
type Patch struct {
	Title   *string
	Content *string
	Tags    *[]string
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil
}

// NormalizeTags trims every tag and drops the empty ones. Order and duplicates
// are kept. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// HasTag reports whether tag is one of c's tags (exact match).
func (c *Cmd) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Matches reports whether q occurs, case-insensitively, in the title, the
// content or any tag.
func (c *Cmd) Matches(q string) bool {
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(c.Title), q) || strings.Contains(strings.ToLower(c.Content), q) {
		return true
	}
	for _, t := range c.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}
