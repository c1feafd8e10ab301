package items

import (
	"fmt"
	"strings"
)

// TimestampLayout is the fixed-precision local date-time format of Item.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Item is one lost or found report. JSON names match the snapshot file format.
type Item struct {
	ID           int    `json:"id"`
	ReporterName string `json:"name"`
	Contact      string `json:"contact"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Location     string `json:"location"`
	Timestamp    string `json:"timestamp"`
}

// Kind selects one of the two collections.
type Kind string

const (
	KindLost  Kind = "lost"
	KindFound Kind = "found"
)

// ParseKind accepts "lost"/"found" in any case, and the page labels "Lost Items"/"Found Items".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lost", "lost items":
		return KindLost, nil
	case "found", "found items":
		return KindFound, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Label is the report prefix shown to users, e.g. LOST-3.
func (k Kind) Label() string { return strings.ToUpper(string(k)) }

// Title is the capitalised kind, e.g. "Lost".
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// ContactLabel names the contact field from the searcher's point of view.
func (k Kind) ContactLabel() string {
	if k == KindFound {
		return "Finder Contact"
	}
	return "Owner Contact"
}

// Snapshot is the persisted form of both collections.
type Snapshot struct {
	Lost  []Item `json:"lost"`
	Found []Item `json:"found"`
}

// Activity is an item tagged with the collection it came from.
type Activity struct {
	Kind Kind `json:"type"`
	Item
}

// Stats holds aggregate counts over both collections.
type Stats struct {
	Lost            int            `json:"lost"`
	Found           int            `json:"found"`
	Total           int            `json:"total"`
	LostByCategory  map[string]int `json:"lost_by_category"`
	FoundByCategory map[string]int `json:"found_by_category"`
}

// Truncate shortens s to at most n runes, adding "..." when something was cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
