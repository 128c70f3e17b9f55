// Package filters narrows in-memory collections by optional criteria.
// An absent criterion (blank string, nil pointer) leaves the input untouched.
package filters

import (
	"strings"
	"time"
)

func where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// ContainsFold keeps items whose field contains criterion, ignoring case.
func ContainsFold[T any](items []T, criterion string, field func(T) string) []T {
	criterion = strings.TrimSpace(criterion)
	if criterion == "" {
		return items
	}
	needle := strings.ToLower(criterion)
	return where(items, func(item T) bool {
		return strings.Contains(strings.ToLower(field(item)), needle)
	})
}

func Equal[T any](items []T, want *int, field func(T) int) []T {
	if want == nil {
		return items
	}
	return where(items, func(item T) bool { return field(item) == *want })
}

// AtLeast keeps items whose field is >= lower.
func AtLeast[T any](items []T, lower *int, field func(T) int) []T {
	if lower == nil {
		return items
	}
	return where(items, func(item T) bool { return field(item) >= *lower })
}

// AtMost keeps items whose field is <= upper.
func AtMost[T any](items []T, upper *int, field func(T) int) []T {
	if upper == nil {
		return items
	}
	return where(items, func(item T) bool { return field(item) <= *upper })
}

// From keeps items whose time field is on or after from.
func From[T any](items []T, from *time.Time, field func(T) time.Time) []T {
	if from == nil {
		return items
	}
	return where(items, func(item T) bool { return !field(item).Before(*from) })
}

// To keeps items whose time field is on or before to.
func To[T any](items []T, to *time.Time, field func(T) time.Time) []T {
	if to == nil {
		return items
	}
	return where(items, func(item T) bool { return !field(item).After(*to) })
}
