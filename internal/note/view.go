package note

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder selects the date ordering of the view.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// ParseSortOrder parses a sort order name. Empty means newest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortOldest:
		return SortOldest, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Toggle returns the opposite order.
func (o SortOrder) Toggle() SortOrder {
	if o == SortOldest {
		return SortNewest
	}
	return SortOldest
}

// Query holds the view inputs besides the collection.
type Query struct {
	Search     string
	Order      SortOrder
	PinnedOnly bool
}

// View derives the displayed sequence from a collection. The input slice is
// never modified. Pinned notes always come first; ties keep input order.
func View(collection []Note, search string, order SortOrder, pinnedOnly bool) []Note {
	term := strings.ToLower(search)
	out := make([]Note, 0, len(collection))
	for _, n := range collection {
		if pinnedOnly && !n.Pinned {
			continue
		}
		if term != "" && !strings.Contains(strings.ToLower(n.Text), term) {
			continue
		}
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if order == SortOldest {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return out
}

// Apply runs View with the query's fields.
func (q Query) Apply(collection []Note) []Note {
	return View(collection, q.Search, q.Order, q.PinnedOnly)
}
