package domain

import (
	"errors"
	"strings"
)

// Dog is an adoptable dog record as published by the catalog. Identity is ID.
type Dog struct {
	ID       string
	Name     string
	Breed    string
	Age      int
	ZipCode  string
	ImageURL string
}

var (
	ErrEmptyDogID  = errors.New("dog id is required")
	ErrNegativeAge = errors.New("dog age must be greater or equal to zero")
)

// Validate checks the record invariants.
func (d Dog) Validate() error {
	if strings.TrimSpace(d.ID) == "" {
		return ErrEmptyDogID
	}
	if d.Age < 0 {
		return ErrNegativeAge
	}
	return nil
}

// PageCursor carries the opaque continuation tokens returned by the search endpoint.
// Tokens are passed back verbatim and never interpreted.
type PageCursor struct {
	Next string
	Prev string
}

// HasNext reports whether a following page exists.
func (c PageCursor) HasNext() bool { return c.Next != "" }

// HasPrev reports whether a preceding page exists.
func (c PageCursor) HasPrev() bool { return c.Prev != "" }

// SearchPage is the first-phase search answer: ids in the service-provided order plus paging data.
type SearchPage struct {
	Total     int
	ResultIDs []string
	Cursor    PageCursor
}

// AlignToIDs orders dogs by ids, skipping ids with no record. The ids order is the sort order the
// service applied, so it is the only order results are shown in.
func AlignToIDs(ids []string, dogs []Dog) []Dog {
	byID := make(map[string]Dog, len(dogs))
	for _, d := range dogs {
		byID[d.ID] = d
	}
	aligned := make([]Dog, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			aligned = append(aligned, d)
		}
	}
	return aligned
}
