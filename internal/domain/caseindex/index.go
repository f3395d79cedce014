// Package caseindex builds the symptom/disease co-occurrence index from
// historical consultation records.
package caseindex

import (
	"sort"

	"github.com/medassist/medassist/internal/domain/caserecord"
	"github.com/medassist/medassist/internal/domain/vocabulary"
)

type nameSet map[string]struct{}

// Index is a bipartite co-occurrence graph between symptoms and diseases.
// Every symptom of a record is linked to every disease of the same record.
// The two directions are kept as exact inverses. An Index is read-only once
// built.
type Index struct {
	symptomToDiseases map[string]nameSet
	diseaseToSymptoms map[string]nameSet
	records           int
	skipped           int
}

// Build indexes records. Records lacking symptoms or diseases contribute no
// pairs and are counted as skipped.
func Build(records []*caserecord.Record) *Index {
	ix := &Index{
		symptomToDiseases: make(map[string]nameSet),
		diseaseToSymptoms: make(map[string]nameSet),
	}
	for _, rec := range records {
		if rec == nil {
			ix.skipped++
			continue
		}
		symptoms := normalizeAll(rec.Symptoms)
		diseases := normalizeAll(rec.Diseases)
		if len(symptoms) == 0 || len(diseases) == 0 {
			ix.skipped++
			continue
		}
		for _, s := range symptoms {
			for _, d := range diseases {
				link(ix.symptomToDiseases, s, d)
				link(ix.diseaseToSymptoms, d, s)
			}
		}
		ix.records++
	}
	return ix
}

func link(m map[string]nameSet, from, to string) {
	set, ok := m[from]
	if !ok {
		set = make(nameSet)
		m[from] = set
	}
	set[to] = struct{}{}
}

func normalizeAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = vocabulary.Normalize(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func sorted(set nameSet) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// DiseasesFor returns the diseases that co-occurred with symptom, sorted.
// A symptom without history yields an empty slice.
func (ix *Index) DiseasesFor(symptom string) []string {
	return sorted(ix.symptomToDiseases[vocabulary.Normalize(symptom)])
}

// SymptomsFor returns the symptoms that co-occurred with disease, sorted.
func (ix *Index) SymptomsFor(disease string) []string {
	return sorted(ix.diseaseToSymptoms[vocabulary.Normalize(disease)])
}

// Linked reports whether symptom and disease appeared in a common record.
func (ix *Index) Linked(symptom, disease string) bool {
	_, ok := ix.symptomToDiseases[vocabulary.Normalize(symptom)][vocabulary.Normalize(disease)]
	return ok
}

// Symptoms returns every indexed symptom, sorted.
func (ix *Index) Symptoms() []string {
	out := make([]string, 0, len(ix.symptomToDiseases))
	for s := range ix.symptomToDiseases {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Diseases returns every indexed disease, sorted.
func (ix *Index) Diseases() []string {
	out := make([]string, 0, len(ix.diseaseToSymptoms))
	for d := range ix.diseaseToSymptoms {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Records is the number of records that contributed pairs.
func (ix *Index) Records() int { return ix.records }

// Skipped is the number of records that contributed nothing.
func (ix *Index) Skipped() int { return ix.skipped }
