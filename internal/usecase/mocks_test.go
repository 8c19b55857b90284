package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cyberlegal/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu       sync.Mutex
	data     map[string][]byte
	getError error
	setError error
	getCalls int
	setCalls int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getError != nil {
		return m.getError
	}
	raw, ok := m.data[key]
	if !ok {
		return domain.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockCacheRepository) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MockPlacesClient is a mock implementation of domain.PlacesClient.
// Nearby results are keyed by "<radius>/<keyword>".
type MockPlacesClient struct {
	mu sync.Mutex

	nearby      map[string][]domain.Candidate
	nearbyError map[string]error
	nearbyCalls []domain.NearbyQuery
	nearbyDelay time.Duration

	details      map[string]*domain.PlaceDetails
	detailsError map[string]error
	detailsCalls []string
	detailFields [][]string

	geocode      *domain.Coordinate
	geocodeError error
	geocodeCalls []string
	geocodeWait  bool

	// nearbyGate, when set, blocks every NearbySearch until it is closed;
	// nearbyEntered receives once per call that reached the gate
	nearbyGate    chan struct{}
	nearbyEntered chan struct{}
}

func NewMockPlacesClient() *MockPlacesClient {
	return &MockPlacesClient{
		nearby:       make(map[string][]domain.Candidate),
		nearbyError:  make(map[string]error),
		details:      make(map[string]*domain.PlaceDetails),
		detailsError: make(map[string]error),
	}
}

func nearbyKey(radius int, keyword string) string {
	return fmt.Sprintf("%d/%s", radius, keyword)
}

func (m *MockPlacesClient) setNearby(radius int, keyword string, candidates ...domain.Candidate) {
	m.nearby[nearbyKey(radius, keyword)] = candidates
}

func (m *MockPlacesClient) NearbySearch(ctx context.Context, query domain.NearbyQuery) ([]domain.Candidate, error) {
	if m.nearbyGate != nil {
		select {
		case m.nearbyEntered <- struct{}{}:
		default:
		}
		<-m.nearbyGate
	}
	if m.nearbyDelay > 0 {
		time.Sleep(m.nearbyDelay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nearbyCalls = append(m.nearbyCalls, query)

	key := nearbyKey(query.RadiusMeters, query.Keyword)
	if err := m.nearbyError[key]; err != nil {
		return nil, err
	}
	if results, ok := m.nearby[key]; ok {
		return append([]domain.Candidate(nil), results...), nil
	}
	return []domain.Candidate{}, nil
}

func (m *MockPlacesClient) PlaceDetails(ctx context.Context, placeID string, fields []string) (*domain.PlaceDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailsCalls = append(m.detailsCalls, placeID)
	m.detailFields = append(m.detailFields, fields)

	if err := m.detailsError[placeID]; err != nil {
		return nil, err
	}
	if d, ok := m.details[placeID]; ok {
		return d, nil
	}
	return &domain.PlaceDetails{}, nil
}

func (m *MockPlacesClient) Geocode(ctx context.Context, address string) (*domain.Coordinate, error) {
	m.mu.Lock()
	m.geocodeCalls = append(m.geocodeCalls, address)
	wait := m.geocodeWait
	m.mu.Unlock()

	if wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.geocodeError != nil {
		return nil, m.geocodeError
	}
	return m.geocode, nil
}

func (m *MockPlacesClient) nearbyCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.nearbyCalls)
}

func (m *MockPlacesClient) detailsCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.detailsCalls)
}

// MockAssistantClient is a mock implementation of domain.AssistantClient
type MockAssistantClient struct {
	mu            sync.Mutex
	askDelay      time.Duration
	askResponse   *domain.AskResponse
	askError      error
	askRequests   []*domain.AskRequest
	voiceResponse *domain.VoiceResponse
	voiceError    error
	voiceRequests []*domain.VoiceRequest
}

func (m *MockAssistantClient) Ask(ctx context.Context, request *domain.AskRequest) (*domain.AskResponse, error) {
	m.mu.Lock()
	m.askRequests = append(m.askRequests, request)
	m.mu.Unlock()
	if m.askDelay > 0 {
		time.Sleep(m.askDelay)
	}
	if m.askError != nil {
		return nil, m.askError
	}
	return m.askResponse, nil
}

func (m *MockAssistantClient) ProcessAudio(ctx context.Context, request *domain.VoiceRequest) (*domain.VoiceResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.voiceRequests = append(m.voiceRequests, request)
	if m.voiceError != nil {
		return nil, m.voiceError
	}
	return m.voiceResponse, nil
}

// MockHistoryRepository is a mock implementation of domain.HistoryRepository
type MockHistoryRepository struct {
	mu            sync.Mutex
	conversations map[string]domain.Conversation
	saveError     error
	saveCalls     int
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{conversations: make(map[string]domain.Conversation)}
}

func (m *MockHistoryRepository) Load(ctx context.Context) error { return nil }

func (m *MockHistoryRepository) Save(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	return m.saveError
}

func (m *MockHistoryRepository) List(ctx context.Context) ([]domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := make([]domain.Conversation, 0, len(m.conversations))
	for _, c := range m.conversations {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *MockHistoryRepository) Get(ctx context.Context, id string) (*domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return nil, domain.ErrConversationNotFound
	}
	c.Messages = append([]domain.Message(nil), c.Messages...)
	return &c, nil
}

func (m *MockHistoryRepository) Upsert(ctx context.Context, conversation *domain.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[conversation.ID] = *conversation
	return nil
}

func (m *MockHistoryRepository) AppendMessages(ctx context.Context, id string, updatedAt time.Time, messages ...domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.conversations[id]
	if !ok {
		return domain.ErrConversationNotFound
	}
	c.Messages = append(append([]domain.Message(nil), c.Messages...), messages...)
	c.UpdatedAt = updatedAt
	m.conversations[id] = c
	return nil
}

func (m *MockHistoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[id]; !ok {
		return domain.ErrConversationNotFound
	}
	delete(m.conversations, id)
	return nil
}

func (m *MockHistoryRepository) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations = make(map[string]domain.Conversation)
	return nil
}

func candidate(id string, lat, lng float64) domain.Candidate {
	return domain.Candidate{
		PlaceID:  id,
		Name:     "Place " + id,
		Vicinity: "Vicinity " + id,
		Location: domain.Coordinate{Lat: lat, Lng: lng},
	}
}

func strPtr(s string) *string { return &s }
