package models

import (
	"encoding/json"
	"sort"
)

// TagSet is an unordered collection of unique tags. The zero value is not
// usable; construct with NewTagSet.
type TagSet struct {
	items map[string]struct{}
}

// NewTagSet creates a tag set from the given tags, dropping duplicates
func NewTagSet(tags ...string) TagSet {
	s := TagSet{items: make(map[string]struct{}, len(tags))}
	for _, t := range tags {
		s.items[t] = struct{}{}
	}
	return s
}

// Add inserts a tag. Adding a present tag is a no-op.
func (s TagSet) Add(tag string) {
	s.items[tag] = struct{}{}
}

// Remove deletes a tag. Removing an absent tag is a no-op.
func (s TagSet) Remove(tag string) {
	delete(s.items, tag)
}

// Contains reports whether the set holds the tag
func (s TagSet) Contains(tag string) bool {
	_, ok := s.items[tag]
	return ok
}

// Len returns the number of tags in the set
func (s TagSet) Len() int {
	return len(s.items)
}

// IsEmpty reports whether the set has no tags
func (s TagSet) IsEmpty() bool {
	return len(s.items) == 0
}

// Values returns the tags in sorted order
func (s TagSet) Values() []string {
	out := make([]string, 0, len(s.items))
	for t := range s.items {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Union returns a new set holding every tag from both sets
func (s TagSet) Union(other TagSet) TagSet {
	out := NewTagSet(s.Values()...)
	for t := range other.items {
		out.items[t] = struct{}{}
	}
	return out
}

// Intersects reports whether the sets share at least one tag
func (s TagSet) Intersects(other TagSet) bool {
	small, large := s, other
	if len(large.items) < len(small.items) {
		small, large = large, small
	}
	for t := range small.items {
		if _, ok := large.items[t]; ok {
			return true
		}
	}
	return false
}

// Equal compares two sets regardless of insertion order
func (s TagSet) Equal(other TagSet) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for t := range s.items {
		if _, ok := other.items[t]; !ok {
			return false
		}
	}
	return true
}

// MarshalJSON serializes the set as a sorted array
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

// UnmarshalJSON reads an array, collapsing duplicates
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewTagSet(tags...)
	return nil
}
