// Package diagnosis narrows candidate diseases by intersecting the
// co-occurrence sets of every symptom a patient reports.
package diagnosis

import (
	"errors"
	"sort"

	"github.com/medassist/medassist/internal/domain/caseindex"
	"github.com/medassist/medassist/internal/domain/vocabulary"
)

// Engine diagnoses sessions against one vocabulary and index snapshot.
type Engine struct {
	vocab *vocabulary.Vocabulary
	index *caseindex.Index
}

func NewEngine(vocab *vocabulary.Vocabulary, index *caseindex.Index) *Engine {
	if vocab == nil {
		vocab = &vocabulary.Vocabulary{}
	}
	if index == nil {
		index = caseindex.Build(nil)
	}
	return &Engine{vocab: vocab, index: index}
}

// AddSymptom records raw in the session if it names a known symptom.
func (e *Engine) AddSymptom(s *Session, raw string) error {
	symptom := vocabulary.Normalize(raw)
	if !e.vocab.Symptoms.Contains(symptom) {
		return &NameError{Kind: KindUnrecognizedSymptom, Name: raw}
	}
	s.add(symptom)
	return nil
}

// AddSymptoms adds every recognized symptom and reports all unrecognized
// ones together.
func (e *Engine) AddSymptoms(s *Session, raws []string) error {
	var errs []error
	for _, raw := range raws {
		if err := e.AddSymptom(s, raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Diagnose returns the diseases that co-occurred with every symptom in the
// session, sorted. An empty session yields an empty result. Any indexed
// disease outside the disease vocabulary fails the whole call.
func (e *Engine) Diagnose(s *Session) ([]string, error) {
	var candidates map[string]struct{}
	for i, symptom := range s.symptoms {
		diseases := e.index.DiseasesFor(symptom)
		for _, d := range diseases {
			if !e.vocab.Diseases.Contains(d) {
				return nil, &NameError{Kind: KindUnrecognizedDisease, Name: d}
			}
		}

		if i == 0 {
			candidates = make(map[string]struct{}, len(diseases))
			for _, d := range diseases {
				candidates[d] = struct{}{}
			}
			continue
		}
		next := make(map[string]struct{}, len(candidates))
		for _, d := range diseases {
			if _, ok := candidates[d]; ok {
				next[d] = struct{}{}
			}
		}
		candidates = next
	}

	out := make([]string, 0, len(candidates))
	for d := range candidates {
		out = append(out, d)
	}
	sort.Strings(out)
	return out, nil
}
