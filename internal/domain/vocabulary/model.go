package vocabulary

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize returns the canonical form of a symptom or disease name:
// NFKC-normalized, trimmed and lower-cased. Two names are equal when their
// normalized forms are equal.
func Normalize(name string) string {
	name = strings.TrimSpace(norm.NFKC.String(name))
	if name == "" {
		return ""
	}
	// cases.Caser is stateful, so a fresh one is built per call.
	return cases.Lower(language.Und).String(name)
}

// Set is an immutable set of normalized names.
type Set struct {
	items map[string]struct{}
}

// NewSet builds a Set from raw names. Blank names are dropped.
func NewSet(names ...string) Set {
	items := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = Normalize(n); n != "" {
			items[n] = struct{}{}
		}
	}
	return Set{items: items}
}

// Contains reports whether name, after normalization, belongs to the set.
func (s Set) Contains(name string) bool {
	_, ok := s.items[Normalize(name)]
	return ok
}

func (s Set) Len() int { return len(s.items) }

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s.items))
	for n := range s.items {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Vocabulary holds the recognized symptom and disease names for one session.
type Vocabulary struct {
	Symptoms Set
	Diseases Set
}

// Usable reports whether both sets are non-empty. An unusable vocabulary
// must not be used for diagnosis.
func (v *Vocabulary) Usable() bool {
	return v != nil && v.Symptoms.Len() > 0 && v.Diseases.Len() > 0
}
