package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Get decodes the stored value into dest; a ttl of zero never expires.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// NearbyQuery is a single keyworded proximity search
type NearbyQuery struct {
	Location     Coordinate
	RadiusMeters int
	Keyword      string
	PlaceType    string
}

// PlacesClient defines the interface for the third-party maps/places provider
type PlacesClient interface {
	// NearbySearch returns an empty slice, not an error, when the provider has no results.
	NearbySearch(ctx context.Context, query NearbyQuery) ([]Candidate, error)
	PlaceDetails(ctx context.Context, placeID string, fields []string) (*PlaceDetails, error)
	Geocode(ctx context.Context, address string) (*Coordinate, error)
}

// AssistantClient defines the interface for the remote question-answering and voice APIs
type AssistantClient interface {
	Ask(ctx context.Context, request *AskRequest) (*AskResponse, error)
	ProcessAudio(ctx context.Context, request *VoiceRequest) (*VoiceResponse, error)
}

// HistoryRepository persists chat history explicitly through Load and Save
type HistoryRepository interface {
	Load(ctx context.Context) error
	Save(ctx context.Context) error
	List(ctx context.Context) ([]Conversation, error)
	Get(ctx context.Context, id string) (*Conversation, error)
	Upsert(ctx context.Context, conversation *Conversation) error
	// AppendMessages adds messages to an existing conversation atomically
	AppendMessages(ctx context.Context, id string, updatedAt time.Time, messages ...Message) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
