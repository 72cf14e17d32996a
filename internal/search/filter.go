// Package search narrows an in-memory catalog with optional field predicates.
package search

import (
	"strings"
	"time"

	"toystore/internal/domain"
)

// Criteria holds the optional search fields. Zero values and nil pointers are
// skipped and never exclude a toy.
type Criteria struct {
	Name        string
	Description string
	TypeName    string
	AgeGroup    string
	TargetGroup string
	PriceFrom   *float64
	PriceTo     *float64
	DateFrom    *time.Time
	DateTo      *time.Time
}

// IsEmpty reports whether no criterion is set.
func (c Criteria) IsEmpty() bool {
	return c.Name == "" && c.Description == "" && c.TypeName == "" && c.AgeGroup == "" &&
		c.TargetGroup == "" && c.PriceFrom == nil && c.PriceTo == nil && c.DateFrom == nil && c.DateTo == nil
}

// Filter returns the toys matching every set criterion, in catalog order.
func Filter(catalog []domain.Toy, c Criteria) []domain.Toy {
	if c.IsEmpty() {
		return catalog
	}
	out := make([]domain.Toy, 0, len(catalog))
	for _, toy := range catalog {
		if Matches(toy, c) {
			out = append(out, toy)
		}
	}
	return out
}

// Matches applies the criteria to a single toy.
func Matches(toy domain.Toy, c Criteria) bool {
	if c.Name != "" && !containsFold(toy.Name, c.Name) {
		return false
	}
	if c.Description != "" && !containsFold(toy.Description, c.Description) {
		return false
	}
	if c.TypeName != "" && !containsFold(toy.Type.Name, c.TypeName) {
		return false
	}
	if c.AgeGroup != "" && !containsFold(toy.AgeGroup.Name, c.AgeGroup) {
		return false
	}
	if c.TargetGroup != "" && toy.TargetGroup != c.TargetGroup {
		return false
	}
	if c.PriceFrom != nil && toy.Price < *c.PriceFrom {
		return false
	}
	if c.PriceTo != nil && toy.Price > *c.PriceTo {
		return false
	}
	if c.DateFrom != nil || c.DateTo != nil {
		produced, ok := ParseDate(toy.ProductionDate)
		if !ok {
			return false
		}
		if c.DateFrom != nil && produced.Before(calendarDay(*c.DateFrom)) {
			return false
		}
		if c.DateTo != nil && produced.After(calendarDay(*c.DateTo)) {
			return false
		}
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate reads a production or criteria date and truncates it to its
// calendar day in UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return calendarDay(t), true
		}
	}
	return time.Time{}, false
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
