// Package session holds the per-conversation UI state of the interactive surfaces.
package session

import (
	"errors"
	"strings"
	"sync"

	"campus-lostfound/internal/items"
)

type Page string

const (
	PageHome        Page = "Home"
	PageReportLost  Page = "Report Lost"
	PageReportFound Page = "Report Found"
	PageSearch      Page = "Search"
	PageStatistics  Page = "Statistics"
	PageChat        Page = "AI Chat"
)

// Pages lists every page in navigation order.
var Pages = []Page{PageHome, PageReportLost, PageReportFound, PageSearch, PageStatistics, PageChat}

// State is the UI state of one session. It starts on the Home page with no
// draft, searching found items.
type State struct {
	Page       Page
	Draft      *Draft
	SearchKind items.Kind
}

func NewState() *State {
	return &State{Page: PageHome, SearchKind: items.KindFound}
}

// Navigate switches page and abandons any unfinished report.
func (s *State) Navigate(p Page) {
	s.Page = p
	s.Draft = nil
}

// StartReport opens the report page of the given kind with an empty draft.
func (s *State) StartReport(kind items.Kind) *Draft {
	if kind == items.KindFound {
		s.Page = PageReportFound
	} else {
		s.Page = PageReportLost
	}
	s.Draft = &Draft{Kind: kind, Step: StepName}
	return s.Draft
}

type Step int

const (
	StepName Step = iota
	StepContact
	StepCategory
	StepLocation
	StepDescription
	StepDone
)

var ErrEmptyAnswer = errors.New("this field is required")
var ErrBadCategory = errors.New("pick one of the listed categories")

// Draft collects report fields one answer at a time.
type Draft struct {
	Kind   items.Kind
	Step   Step
	Fields items.Fields
}

// Prompt is the question for the current step.
func (d *Draft) Prompt() string {
	switch d.Step {
	case StepName:
		return "Your Full Name *"
	case StepContact:
		return "Contact Number * (e.g., 03XX-XXXXXXX)"
	case StepCategory:
		return "Item Category *"
	case StepLocation:
		if d.Kind == items.KindFound {
			return "Location Found * (e.g., Main Library, CS Department)"
		}
		return "Location Lost * (e.g., Main Library, CS Department)"
	case StepDescription:
		return "Detailed Description * (color, brand, model, distinctive features, etc.)"
	default:
		return ""
	}
}

// Apply stores the answer for the current step and advances. It reports
// whether the draft is complete.
func (d *Draft) Apply(answer string) (bool, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return false, ErrEmptyAnswer
	}
	switch d.Step {
	case StepName:
		d.Fields.ReporterName = answer
	case StepContact:
		d.Fields.Contact = answer
	case StepCategory:
		c, ok := items.ParseCategory(answer)
		if !ok {
			return false, ErrBadCategory
		}
		d.Fields.Category = c
	case StepLocation:
		d.Fields.Location = answer
	case StepDescription:
		d.Fields.Description = answer
	default:
		return true, nil
	}
	d.Step++
	return d.Step == StepDone, nil
}

// Manager hands out one State per session key.
type Manager struct {
	mu     sync.Mutex
	states map[string]*State
}

func NewManager() *Manager {
	return &Manager{states: make(map[string]*State)}
}

// Get returns the session's state, creating it on first use.
func (m *Manager) Get(key string) *State {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[key]
	if !ok {
		st = NewState()
		m.states[key] = st
	}
	return st
}
