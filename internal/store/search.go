package store

import (
	"strings"

	"campus-lostfound/internal/items"
)

// Search scans one collection for records whose description, category or
// location contains query, ignoring case. Only the empty query matches
// everything; whitespace is part of the query. Results keep insertion order.
func (s *Store) Search(kind items.Kind, query string) []items.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	coll, err := s.collection(kind)
	if err != nil {
		return []items.Item{}
	}
	q := strings.ToLower(query)
	out := make([]items.Item, 0, len(*coll))
	for _, it := range *coll {
		if q == "" || matches(it, q) {
			out = append(out, it)
		}
	}
	return out
}

func matches(it items.Item, q string) bool {
	return strings.Contains(strings.ToLower(it.Description), q) ||
		strings.Contains(strings.ToLower(it.Category), q) ||
		strings.Contains(strings.ToLower(it.Location), q)
}
