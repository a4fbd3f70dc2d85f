package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Collection names the store collection a change applies to.
type Collection string

// Store collections.
const (
	CollectionWords           Collection = "words"
	CollectionKnowledgePoints Collection = "knowledgePoints"
	CollectionCategories      Collection = "categories"
	CollectionTasks           Collection = "tasks"
	// CollectionAll marks changes that replace every collection.
	CollectionAll Collection = "all"
)

// Action describes what happened to the collection.
type Action string

// Change actions.
const (
	ActionAdded    Action = "added"
	ActionUpdated  Action = "updated"
	ActionDeleted  Action = "deleted"
	ActionImported Action = "imported"
	ActionLoaded   Action = "loaded"
	ActionPruned   Action = "pruned"
	ActionSaved    Action = "saved"
)

// ChangeEvent represents one mutation of the store.
type ChangeEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	Collection Collection `json:"collection"`
	Action     Action     `json:"action"`

	// EntityID is the affected record, empty for bulk changes.
	EntityID string `json:"entity_id,omitempty"`

	// Payload holds the changed record serialized as JSON, if any.
	Payload json.RawMessage `json:"payload,omitempty"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ChangeEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewChangeEvent creates a ChangeEvent. A nil payload is left empty.
func NewChangeEvent(collection Collection, action Action, entityID string, payload interface{}) (*ChangeEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return &ChangeEvent{
		ID:         uuid.New(),
		Collection: collection,
		Action:     action,
		EntityID:   entityID,
		Payload:    raw,
		CreatedAt:  time.Now(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ChangeEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *ChangeEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *ChangeEvent) error {
	return f(ctx, event)
}

// Only returns a handler that forwards events for the given collections to
// next and ignores the rest. Events for CollectionAll are always forwarded.
func Only(next EventHandler, collections ...Collection) EventHandler {
	want := make(map[Collection]struct{}, len(collections))
	for _, c := range collections {
		want[c] = struct{}{}
	}
	return HandlerFunc(func(ctx context.Context, event *ChangeEvent) error {
		if _, ok := want[event.Collection]; !ok && event.Collection != CollectionAll {
			return nil
		}
		return next.HandleEvent(ctx, event)
	})
}

// EventEmitter defines an interface for components that can emit events.
// This allows the store to publish changes without direct knowledge of handlers.
type EventEmitter interface {
	// RegisterHandler subscribes handler to all future events.
	RegisterHandler(handler EventHandler)

	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *ChangeEvent) error
}
