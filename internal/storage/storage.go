package storage

import (
	"time"

	"campus-lostfound/internal/items"
)

// Event represents a single chat exchange relayed to the completion service.
// A record combines the user's message and the assistant's response.
// Events are expected to be appended in chronological order.
type Event struct {
	Timestamp         time.Time `json:"timestamp"`
	SessionKey        string    `json:"session_key"`
	UserMessage       string    `json:"user_message"`
	AssistantResponse string    `json:"assistant_response"`
	// Live is false when the reply was a fallback message rather than a completion.
	Live bool `json:"live"`
}

// Recorder abstracts persistence of interaction events.
// LoadInteractions should return events in chronological order.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendInteraction(event Event) error
	LoadInteractions() ([]Event, error)
}

// SnapshotRepository persists both item collections as one unit.
// Save always replaces the whole previous snapshot.
type SnapshotRepository interface {
	Load() (items.Snapshot, error)
	Save(snapshot items.Snapshot) error
}
