package pagination

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

const sortPartsMax = 2

// ParseSort parses "field" or "field:order". The order defaults to asc.
//
//nolint:nonamedreturns // Named returns document the pair.
func ParseSort(expr string) (field, order string, err error) {
	parts := strings.Split(expr, ":")
	if len(parts) > sortPartsMax {
		return "", "", fmt.Errorf("invalid sort %q: use field or field:order", expr)
	}
	field = strings.TrimSpace(parts[0])
	if field == "" {
		return "", "", fmt.Errorf("invalid sort %q: empty field", expr)
	}
	order = SortOrderAsc
	if len(parts) == sortPartsMax {
		order = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	if order != SortOrderAsc && order != SortOrderDesc {
		return "", "", fmt.Errorf("invalid sort order %q: must be asc or desc", order)
	}
	return field, order, nil
}

// Sorter orders items by named fields.
type Sorter[T any] struct {
	fields map[string]func(a, b T) int
}

// NewSorter returns a sorter over the given comparison functions.
func NewSorter[T any](fields map[string]func(a, b T) int) *Sorter[T] {
	return &Sorter[T]{fields: fields}
}

// By is a comparison on one ordered key.
func By[T any, K cmp.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// Fields lists the sortable field names.
func (s *Sorter[T]) Fields() []string {
	out := make([]string, 0, len(s.fields))
	for f := range s.fields {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// Sort returns a stably sorted copy of items. The expression is parsed with
// ParseSort; an empty expression returns the items unchanged.
func (s *Sorter[T]) Sort(items []T, expr string) ([]T, error) {
	if strings.TrimSpace(expr) == "" {
		return items, nil
	}
	field, order, err := ParseSort(expr)
	if err != nil {
		return nil, err
	}
	compare, ok := s.fields[field]
	if !ok {
		return nil, fmt.Errorf("invalid sort field %q (valid: %s)", field, strings.Join(s.Fields(), ", "))
	}
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		if order == SortOrderDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted, nil
}
