package domain

import "time"

// SearchMode selects which kind of help the locator looks for
type SearchMode string

const (
	ModePolice SearchMode = "police"
	ModeLawyer SearchMode = "lawyer"
)

// ModeProfile holds everything that varies between search modes
type ModeProfile struct {
	Mode         SearchMode
	Keywords     []string // priority order
	PlaceType    string   // provider type filter
	DisplayLimit int      // N: candidates kept after ranking
	EnrichLimit  int      // K: candidates that get a detail lookup, K <= N
	DetailFields []string
	ReviewLimit  int // 0 disables review retrieval
}

// Candidate is a single place returned by a proximity search, pre-ranking
type Candidate struct {
	PlaceID  string     `json:"placeId"`
	Name     string     `json:"name"`
	Vicinity string     `json:"vicinity"`
	Location Coordinate `json:"location"`
	Types    []string   `json:"types,omitempty"`
	Rating   *float64   `json:"rating,omitempty"`
}

// RankedCandidate is a Candidate with its distance from the user
type RankedCandidate struct {
	Candidate
	DistanceKm float64 `json:"distanceKm"`
	Position   int     `json:"position"` // 1-based display position
}

// Review is a single user review attached to a place
type Review struct {
	Author                  string `json:"author"`
	Rating                  int    `json:"rating"`
	Text                    string `json:"text"`
	RelativeTimeDescription string `json:"relativeTime,omitempty"`
}

// PlaceDetails are the optional contact fields returned by a detail lookup.
// Every field may be absent.
type PlaceDetails struct {
	Phone              *string  `json:"phone"`
	InternationalPhone *string  `json:"internationalPhone"`
	Address            *string  `json:"address"`
	Website            *string  `json:"website"`
	IsOpen             *bool    `json:"isOpen"`
	OpeningHours       []string `json:"openingHours"`
	Reviews            []Review `json:"reviews"`
}

// EnrichedCandidate is a RankedCandidate plus whatever details could be fetched
type EnrichedCandidate struct {
	RankedCandidate
	PlaceDetails
	Enriched bool `json:"enriched"`
}

// SearchState is a step of the locator search flow
type SearchState string

const (
	StateIdle      SearchState = "idle"
	StateSearching SearchState = "searching"
	StateRanking   SearchState = "ranking"
	StateEnriching SearchState = "enriching"
	StateDone      SearchState = "done"
	StateFailed    SearchState = "failed"
)

// LocateRequest describes one locator search
type LocateRequest struct {
	Mode           SearchMode
	Location       LocationInput
	Specialization string
	SessionID      string
}

// SearchResult is the final, cacheable outcome of a locator search
type SearchResult struct {
	Mode           SearchMode          `json:"mode"`
	Origin         Coordinate          `json:"origin"`
	RadiusMeters   int                 `json:"radiusMeters"`
	Specialization string              `json:"specialization,omitempty"`
	Places         []EnrichedCandidate `json:"places"`
	Source         string              `json:"source"` // "Places API" or "Cache"
	SearchedAt     time.Time           `json:"searchedAt"`
}

// Helpline is a phone number shown alongside police search results
type Helpline struct {
	Name        string `json:"name"`
	Number      string `json:"number"`
	Description string `json:"description"`
}

// LegalResource is a reference site shown alongside lawyer search results
type LegalResource struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
}
