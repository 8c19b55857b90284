package usecase

import (
	"context"
	"log"

	"github.com/cyberlegal/backend/internal/domain"
)

const (
	// maxKeywordPasses bounds how many keywords are tried per radius
	maxKeywordPasses = 2
	// enoughCandidates stops the keyword loop early
	enoughCandidates = 5
)

// PlaceSearcher runs the keyworded proximity searches for one radius
type PlaceSearcher struct {
	client domain.PlacesClient
}

// NewPlaceSearcher creates a searcher over the given provider
func NewPlaceSearcher(client domain.PlacesClient) *PlaceSearcher {
	return &PlaceSearcher{client: client}
}

// Search queries the first keywords of the profile in priority order and
// returns the deduplicated candidates in discovery order. A failing keyword
// is logged and skipped.
func (s *PlaceSearcher) Search(
	ctx context.Context,
	origin domain.Coordinate,
	profile domain.ModeProfile,
	radius int,
) []domain.Candidate {
	keywords := profile.Keywords
	if len(keywords) > maxKeywordPasses {
		keywords = keywords[:maxKeywordPasses]
	}

	seen := make(map[string]struct{})
	candidates := make([]domain.Candidate, 0, enoughCandidates)

	for _, keyword := range keywords {
		if ctx.Err() != nil {
			break
		}

		results, err := s.client.NearbySearch(ctx, domain.NearbyQuery{
			Location:     origin,
			RadiusMeters: radius,
			Keyword:      keyword,
			PlaceType:    profile.PlaceType,
		})
		if err != nil {
			log.Printf("[Locator] Search for %q failed: %v", keyword, err)
			continue
		}

		for _, c := range results {
			if _, dup := seen[c.PlaceID]; dup {
				continue
			}
			seen[c.PlaceID] = struct{}{}
			candidates = append(candidates, c)
		}

		if len(candidates) >= enoughCandidates {
			break
		}
	}

	return candidates
}
