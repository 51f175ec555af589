// Package metadata joins predicted diseases with the recommended tests,
// medicines and emergency flag annotated in the dataset.
package metadata

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Skufu/symptomdx/internal/dataset"
)

// Entry is the annotation of one disease.
type Entry struct {
	Tests     []string `json:"tests"`
	Medicines []string `json:"medicines"`
	Emergency bool     `json:"emergency"`
}

// Index maps a lowercased disease name to its annotation.
type Index map[string]Entry

// Status says whether the annotation source could be read.
type Status int

const (
	// Available means the index was built from the dataset.
	Available Status = iota
	// Unavailable means the dataset could not be read; every lookup is empty.
	Unavailable
)

func (s Status) String() string {
	if s == Available {
		return "available"
	}
	return "unavailable"
}

// Result is the outcome of loading annotations. An unavailable source is a
// degraded result, not an error: callers keep serving with empty annotations.
type Result struct {
	Status Status
	Index  Index
	Reason error
}

// Load builds the index from the dataset at path.
func Load(path string) Result {
	ds, err := dataset.LoadCSV(path)
	if err != nil {
		return Result{Status: Unavailable, Reason: err}
	}
	return Result{Status: Available, Index: Build(ds)}
}

// Build indexes every prognosis. Rows sharing a prognosis are merged: token
// lists are unioned in first-seen order and the emergency flag is set if any
// row sets it.
func Build(ds *dataset.Dataset) Index {
	idx := make(Index)
	for _, row := range ds.Rows {
		key := normalize(row.Prognosis)
		e := idx[key]
		e.Tests = appendUnique(e.Tests, splitTokens(row.Annotations[dataset.TestsColumn])...)
		e.Medicines = appendUnique(e.Medicines, splitTokens(row.Annotations[dataset.MedicinesColumn])...)
		e.Emergency = e.Emergency || parseFlag(row.Annotations[dataset.EmergencyColumn])
		idx[key] = e
	}
	return idx
}

// Lookup returns the annotation for disease, empty when unknown or unavailable.
func (r Result) Lookup(disease string) Entry {
	e, ok := r.Index[normalize(disease)]
	if !ok {
		return Entry{Tests: []string{}, Medicines: []string{}}
	}
	return Entry{
		Tests:     append([]string{}, e.Tests...),
		Medicines: append([]string{}, e.Medicines...),
		Emergency: e.Emergency,
	}
}

// Summary aggregates the annotations of several diseases.
type Summary struct {
	Tests            []string
	Medicines        []string
	Emergency        bool
	EmergencyReasons []string
}

// Aggregate looks up every disease and unions the results. Tests and medicines
// are deduplicated and sorted; EmergencyReasons lists the flagged diseases in
// input order.
func (r Result) Aggregate(diseases []string) ([]Entry, Summary) {
	entries := make([]Entry, len(diseases))
	sum := Summary{Tests: []string{}, Medicines: []string{}, EmergencyReasons: []string{}}
	for i, d := range diseases {
		e := r.Lookup(d)
		entries[i] = e
		sum.Tests = appendUnique(sum.Tests, e.Tests...)
		sum.Medicines = appendUnique(sum.Medicines, e.Medicines...)
		if e.Emergency {
			sum.Emergency = true
			sum.EmergencyReasons = append(sum.EmergencyReasons, d)
		}
	}
	sort.Strings(sum.Tests)
	sort.Strings(sum.Medicines)
	return entries, sum
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func splitTokens(cell string) []string {
	var out []string
	for _, tok := range strings.Split(cell, "|") {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// parseFlag reads a 0/1 or yes/no (true/false) cell. Anything unparsable is false.
func parseFlag(cell string) bool {
	cell = strings.ToLower(strings.TrimSpace(cell))
	switch cell {
	case "yes", "true":
		return true
	case "no", "false":
		return false
	}
	if n, err := strconv.Atoi(cell); err == nil {
		return n != 0
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f != 0
	}
	return false
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
