package interfaces

import (
	"fmt"
	"sort"
	"strings"
)

// DeletionBlockedError is returned when a row is still referenced by others.
type DeletionBlockedError struct {
	Resource   string
	References map[string]int64
}

func (e *DeletionBlockedError) Error() string {
	parts := make([]string, 0, len(e.References))
	for name, n := range e.References {
		parts = append(parts, fmt.Sprintf("%d %s", n, name))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s is still referenced by %s", e.Resource, strings.Join(parts, ", "))
}
