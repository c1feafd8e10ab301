package items

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownKind = errors.New("unknown item kind")

// Categories is the fixed set offered by every reporting surface, in display order.
var Categories = []string{
	"Mobile",
	"Wallet",
	"Keys",
	"Laptop",
	"Bag",
	"ID Card",
	"Books",
	"Charger",
	"Headphones",
	"Other",
}

// ParseCategory returns the canonical spelling of a category, matched case-insensitively.
func ParseCategory(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(c, s) {
			return c, true
		}
	}
	return "", false
}

// Fields are the caller-supplied values of a new report.
type Fields struct {
	ReporterName string `json:"name"`
	Contact      string `json:"contact"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Location     string `json:"location"`
}

// ValidationError lists every problem found in a Fields value.
type ValidationError struct {
	Missing         []string
	UnknownCategory string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if e.UnknownCategory != "" {
		parts = append(parts, fmt.Sprintf("unknown category %q", e.UnknownCategory))
	}
	return strings.Join(parts, "; ")
}

// Normalize trims every field and canonicalises the category spelling.
func (f Fields) Normalize() Fields {
	out := Fields{
		ReporterName: strings.TrimSpace(f.ReporterName),
		Contact:      strings.TrimSpace(f.Contact),
		Category:     strings.TrimSpace(f.Category),
		Description:  strings.TrimSpace(f.Description),
		Location:     strings.TrimSpace(f.Location),
	}
	if c, ok := ParseCategory(out.Category); ok {
		out.Category = c
	}
	return out
}

// Validate reports empty fields and categories outside Categories.
// The store itself never calls it.
func (f Fields) Validate() error {
	n := f.Normalize()
	verr := &ValidationError{}
	for _, fv := range []struct{ name, value string }{
		{"name", n.ReporterName},
		{"contact", n.Contact},
		{"category", n.Category},
		{"description", n.Description},
		{"location", n.Location},
	} {
		if fv.value == "" {
			verr.Missing = append(verr.Missing, fv.name)
		}
	}
	if n.Category != "" {
		if _, ok := ParseCategory(n.Category); !ok {
			verr.UnknownCategory = n.Category
		}
	}
	if len(verr.Missing) == 0 && verr.UnknownCategory == "" {
		return nil
	}
	return verr
}
