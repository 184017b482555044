// BYZRA ⸻ internal/tagset/tagset.go
// decoded metadata entries and the immutable set holding them

// Package tagset holds the decoded metadata of one image: a name-keyed,
// read-only set of tags, plus the decoder adapter that produces it.
package tagset

import (
	"fmt"
	"sort"
	"strings"
)

// Tag is a single decoded metadata entry.
//
// Value is the raw decoded value: string, int64, float64, []byte or []any
// for multi-valued entries. Description is the human readable rendering and
// is only meaningful when HasDescription is set.
type Tag struct {
	Name           string
	Value          any
	Description    string
	HasDescription bool
}

// Presentable reports whether the tag carries anything to show.
func (t Tag) Presentable() bool {
	return t.HasDescription || t.Value != nil
}

// Text returns the description, falling back to the raw value when the
// description is empty. The bool is true when the text came from a string
// (the description or a string value) rather than a formatted number.
func (t Tag) Text() (string, bool) {
	if t.HasDescription && t.Description != "" {
		return t.Description, true
	}
	switch v := t.Value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	default:
		return FormatValue(v), false
	}
}

// String is the display text of the tag.
func (t Tag) String() string {
	s, _ := t.Text()
	return s
}

// FormatValue renders a raw value the way it would be shown to a user.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		if printable(v) {
			return strings.TrimRight(string(v), "\x00 ")
		}
		return fmt.Sprintf("[%d bytes]", len(v))
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, ", ")
	case float64:
		return formatFloat(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TagSet is an immutable mapping from tag name to Tag.
// The zero value is an empty set.
type TagSet struct {
	tags map[string]Tag
}

// New builds a TagSet from tags. Later duplicates replace earlier ones.
// Tags without a name are dropped.
func New(tags ...Tag) TagSet {
	m := make(map[string]Tag, len(tags))
	for _, t := range tags {
		if t.Name == "" {
			continue
		}
		m[t.Name] = t
	}
	return TagSet{tags: m}
}

// FromMap copies m into a new TagSet. Map keys win over Tag.Name.
func FromMap(m map[string]Tag) TagSet {
	c := make(map[string]Tag, len(m))
	for name, t := range m {
		t.Name = name
		c[name] = t
	}
	return TagSet{tags: c}
}

// Get looks up a tag by name.
func (s TagSet) Get(name string) (Tag, bool) {
	t, ok := s.tags[name]
	return t, ok
}

// Has reports whether name is present.
func (s TagSet) Has(name string) bool {
	_, ok := s.tags[name]
	return ok
}

func (s TagSet) Len() int { return len(s.tags) }

// Names returns all tag names sorted lexicographically.
func (s TagSet) Names() []string {
	names := make([]string, 0, len(s.tags))
	for name := range s.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Each calls fn for every tag in name order.
func (s TagSet) Each(fn func(Tag)) {
	for _, name := range s.Names() {
		fn(s.tags[name])
	}
}
