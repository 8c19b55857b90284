package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cyberlegal/backend/internal/domain"
	"golang.org/x/sync/singleflight"
)

const (
	sourcePlacesAPI = "Places API"
	sourceCache     = "Cache"
)

// LocatorServiceConfig holds configuration for the locator service
type LocatorServiceConfig struct {
	InitialRadius  int
	FallbackRadius int
	CacheTTL       time.Duration
	Region         string
	GeocodeTimeout time.Duration
}

// LocatorService finds the nearest police stations or lawyers.
// Flow: resolve location -> check cache -> search (with one radius fallback)
// -> rank -> enrich top-K -> cache -> return
type LocatorService struct {
	geolocator     *Geolocator
	searcher       *PlaceSearcher
	enricher       *Enricher
	cache          *ResultCache
	sessions       *SessionTracker
	inflight       singleflight.Group
	initialRadius  int
	fallbackRadius int
	now            func() time.Time
}

// NewLocatorService creates a locator service with dependencies
func NewLocatorService(
	places domain.PlacesClient,
	cache domain.CacheRepository,
	config LocatorServiceConfig,
) *LocatorService {
	initial := config.InitialRadius
	if initial <= 0 {
		initial = 10000
	}
	fallback := config.FallbackRadius
	if fallback <= initial {
		fallback = 3 * initial
	}

	return &LocatorService{
		geolocator: NewGeolocator(places, GeolocatorConfig{
			Region:  config.Region,
			Timeout: config.GeocodeTimeout,
		}),
		searcher:       NewPlaceSearcher(places),
		enricher:       NewEnricher(places),
		cache:          NewResultCache(cache, config.CacheTTL),
		sessions:       NewSessionTracker(),
		initialRadius:  initial,
		fallbackRadius: fallback,
		now:            time.Now,
	}
}

// Search runs one locator search. An empty result after the radius fallback
// is returned together with domain.ErrNoResults. When the request carries a
// session ID and a newer search for that session has started in the
// meantime, the result is dropped with domain.ErrSearchSuperseded.
//
// A result served from the cache equals the stored one except that Source
// reads "Cache" instead of "Places API".
func (s *LocatorService) Search(ctx context.Context, request *domain.LocateRequest) (*domain.SearchResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	specialization, err := NormalizeSpecialization(request.Specialization)
	if err != nil {
		return nil, err
	}
	if request.Mode != domain.ModeLawyer {
		specialization = ""
	}

	profile, err := ProfileFor(request.Mode, specialization)
	if err != nil {
		return nil, err
	}

	session := request.SessionID
	var generation uint64
	if session != "" {
		generation = s.sessions.Begin(session, request.Mode)
	}
	progress := func(state domain.SearchState, radius int) {
		if session != "" {
			s.sessions.Advance(session, generation, state, radius)
		}
	}
	fail := func(err error) error {
		if session != "" {
			s.sessions.Fail(session, generation, err)
		}
		return err
	}

	origin, err := s.geolocator.Resolve(ctx, request.Location)
	if err != nil {
		return nil, fail(err)
	}

	key := CacheKey(request.Mode, origin, s.initialRadius, specialization)

	result, err := s.cache.Get(ctx, key)
	if err == nil {
		log.Printf("[Locator] Cache hit for %s", key)
		result.Source = sourceCache
	} else {
		// Identical concurrent searches share one provider pipeline, which
		// only reports progress to the session that started it. Joined
		// sessions are marked searching here.
		progress(domain.StateSearching, s.initialRadius)
		v, err, shared := s.inflight.Do(key, func() (interface{}, error) {
			// not tied to any single caller's cancellation
			return s.run(context.WithoutCancel(ctx), key, origin, profile, specialization, progress), nil
		})
		if err != nil {
			return nil, fail(err)
		}
		if shared {
			log.Printf("[Locator] Joined in-flight search for %s", key)
		}
		fresh := *v.(*domain.SearchResult)
		result = &fresh
	}

	if session != "" && !s.sessions.IsCurrent(session, generation) {
		log.Printf("[Locator] Dropping stale result for session %s (generation %d)", session, generation)
		return nil, domain.ErrSearchSuperseded
	}

	if len(result.Places) == 0 {
		fail(domain.ErrNoResults)
		return result, fmt.Errorf("%w within %d km", domain.ErrNoResults, result.RadiusMeters/1000)
	}

	progress(domain.StateDone, result.RadiusMeters)
	return result, nil
}

// run executes the provider pipeline for one cache key and stores the outcome.
// Empty results are cached too, so a repeated search makes no provider calls.
func (s *LocatorService) run(
	ctx context.Context,
	key string,
	origin domain.Coordinate,
	profile domain.ModeProfile,
	specialization string,
	progress func(domain.SearchState, int),
) *domain.SearchResult {
	radius := s.initialRadius
	progress(domain.StateSearching, radius)
	candidates := s.searcher.Search(ctx, origin, profile, radius)

	if len(candidates) == 0 {
		radius = s.fallbackRadius
		log.Printf("[Locator] No %s results within %dm, retrying with %dm", profile.Mode, s.initialRadius, radius)
		progress(domain.StateSearching, radius)
		candidates = s.searcher.Search(ctx, origin, profile, radius)
	}

	progress(domain.StateRanking, radius)
	ranked := Rank(origin, candidates, profile.DisplayLimit)

	progress(domain.StateEnriching, radius)
	places := s.enricher.Enrich(ctx, ranked, profile)

	result := &domain.SearchResult{
		Mode:           profile.Mode,
		Origin:         origin,
		RadiusMeters:   radius,
		Specialization: specialization,
		Places:         places,
		Source:         sourcePlacesAPI,
		SearchedAt:     s.now(),
	}

	s.cache.Set(ctx, key, result)
	log.Printf("[Locator] Found %d %s places for %s", len(places), profile.Mode, key)

	return result
}

// Geocode resolves a typed city name to a coordinate
func (s *LocatorService) Geocode(ctx context.Context, placeName string) (domain.Coordinate, error) {
	return s.geolocator.Geocode(ctx, placeName)
}

// SessionStatus returns the last known search state of a session
func (s *LocatorService) SessionStatus(sessionID string) (SessionStatus, bool) {
	return s.sessions.Status(sessionID)
}

// Resources returns the static help listed next to results of mode
type Resources struct {
	Mode            domain.SearchMode      `json:"mode"`
	Helplines       []domain.Helpline      `json:"helplines,omitempty"`
	LegalResources  []domain.LegalResource `json:"legalResources,omitempty"`
	Specializations []string               `json:"specializations,omitempty"`
}

// Resources returns helplines for police mode and legal resources for lawyer mode
func (s *LocatorService) Resources(mode domain.SearchMode) (*Resources, error) {
	switch mode {
	case domain.ModePolice:
		return &Resources{Mode: mode, Helplines: Helplines}, nil
	case domain.ModeLawyer:
		return &Resources{Mode: mode, LegalResources: LegalResources, Specializations: Specializations}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMode, mode)
	}
}

// IsLocationError reports whether err is a user-facing location failure
func IsLocationError(err error) (*domain.LocationError, bool) {
	var locErr *domain.LocationError
	if errors.As(err, &locErr) {
		return locErr, true
	}
	return nil, false
}
