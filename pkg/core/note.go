package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Note is the central entity of the domain.
// It represents one user document kept in the Store and mirrored by the Cache.
type Note struct {
	ID       int64    `json:"id,omitempty"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Category Category `json:"category"`
	Date     string   `json:"date"` // ISO calendar date (YYYY-MM-DD), set at creation/last-save time
	Pinned   bool     `json:"pinned,omitempty"`
}

// Category classifies a note. The set is closed; anything else is inferred.
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryIdeas    Category = "ideas"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryPersonal, CategoryWork, CategoryIdeas:
		return true
	}
	return false
}

var (
	tagPattern = regexp.MustCompile(`^[a-z0-9-_]+$`)

	workTags = map[string]bool{"work": true, "meeting": true, "project": true, "business": true}
	ideaTags = map[string]bool{"idea": true, "concept": true, "brainstorm": true, "innovation": true}
)

// NormalizeTags splits a comma-separated tag string into the canonical tag set:
// lowercase, restricted to [a-z0-9-_]+, de-duplicated, insertion order preserved.
// Invalid or empty entries are silently dropped.
func NormalizeTags(input string) []string {
	tags := []string{}
	seen := make(map[string]bool)
	for _, raw := range strings.Split(input, ",") {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" || !tagPattern.MatchString(tag) || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// NormalizeTagList applies the same rules as NormalizeTags to an already-split list.
func NormalizeTagList(input []string) []string {
	return NormalizeTags(strings.Join(input, ","))
}

// InferCategory derives a category from the tag set when none was chosen explicitly.
func InferCategory(tags []string) Category {
	for _, tag := range tags {
		if workTags[tag] {
			return CategoryWork
		}
	}
	for _, tag := range tags {
		if ideaTags[tag] {
			return CategoryIdeas
		}
	}
	return CategoryPersonal
}

const untitledPrefix = "Untitled "

// UntitledTitle formats the auto-numbered placeholder title.
func UntitledTitle(n int) string {
	return untitledPrefix + strconv.Itoa(n)
}

// UntitledNumber extracts N from an "Untitled N" title.
// Returns -1 when the title does not follow the placeholder pattern.
func UntitledNumber(title string) int {
	rest, ok := strings.CutPrefix(title, untitledPrefix)
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return -1
	}
	return n
}

// Today returns the current ISO calendar date, the format stored in Note.Date.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// Clone returns a deep copy of the note (tags included), so cached entries
// cannot be mutated through shared slices.
func (n Note) Clone() Note {
	c := n
	if n.Tags != nil {
		c.Tags = append([]string(nil), n.Tags...)
	}
	return c
}

// SameSnapshot reports whether two notes carry the same user-editable content
// (title, content, tags). Used for no-op save suppression.
func (n Note) SameSnapshot(o Note) bool {
	if n.Title != o.Title || n.Content != o.Content || len(n.Tags) != len(o.Tags) {
		return false
	}
	for i := range n.Tags {
		if n.Tags[i] != o.Tags[i] {
			return false
		}
	}
	return true
}
