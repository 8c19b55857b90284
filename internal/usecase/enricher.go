package usecase

import (
	"context"
	"log"

	"github.com/cyberlegal/backend/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Enricher attaches contact details to the nearest ranked places
type Enricher struct {
	client domain.PlacesClient
}

// NewEnricher creates an enricher over the given provider
func NewEnricher(client domain.PlacesClient) *Enricher {
	return &Enricher{client: client}
}

// Enrich looks up details for the first profile.EnrichLimit places concurrently.
// Output order matches input order. Places beyond the limit, and places whose
// lookup failed, keep only their search fields with nil optionals.
func (e *Enricher) Enrich(
	ctx context.Context,
	ranked []domain.RankedCandidate,
	profile domain.ModeProfile,
) []domain.EnrichedCandidate {
	out := make([]domain.EnrichedCandidate, len(ranked))
	for i, rc := range ranked {
		out[i] = domain.EnrichedCandidate{RankedCandidate: rc}
	}

	limit := profile.EnrichLimit
	if limit > len(ranked) {
		limit = len(ranked)
	}
	if limit <= 0 {
		return out
	}

	// Lookup errors are absorbed per item, so Wait never fails.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := 0; i < limit; i++ {
		i := i
		g.Go(func() error {
			details, err := e.client.PlaceDetails(gctx, ranked[i].PlaceID, profile.DetailFields)
			if err != nil {
				log.Printf("[Locator] Details for %s failed: %v", ranked[i].PlaceID, err)
				return nil
			}
			out[i] = merge(ranked[i], details, profile.ReviewLimit)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// merge copies the looked-up fields onto rc; a missing address falls back to the vicinity
func merge(rc domain.RankedCandidate, details *domain.PlaceDetails, reviewLimit int) domain.EnrichedCandidate {
	ec := domain.EnrichedCandidate{RankedCandidate: rc}
	if details == nil {
		return ec
	}

	ec.Phone = details.Phone
	ec.InternationalPhone = details.InternationalPhone
	ec.Website = details.Website
	ec.IsOpen = details.IsOpen
	ec.OpeningHours = details.OpeningHours
	ec.Address = details.Address
	if ec.Address == nil && rc.Vicinity != "" {
		vicinity := rc.Vicinity
		ec.Address = &vicinity
	}

	if reviewLimit > 0 && len(details.Reviews) > 0 {
		n := reviewLimit
		if n > len(details.Reviews) {
			n = len(details.Reviews)
		}
		ec.Reviews = append([]domain.Review(nil), details.Reviews[:n]...)
	}

	ec.Enriched = true
	return ec
}
