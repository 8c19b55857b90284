package places

import (
	"github.com/cyberlegal/backend/internal/domain"
)

// MapToCandidates converts provider search results to domain candidates.
// Results without a place ID are skipped since they cannot be deduplicated
// or enriched.
func MapToCandidates(results []placeResult) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(results))
	for _, r := range results {
		if r.PlaceID == "" {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Vicinity: r.Vicinity,
			Location: domain.Coordinate{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Types:    r.Types,
			Rating:   r.Rating,
		})
	}
	return candidates
}

// MapToDetails converts a provider detail record into optional domain fields.
// Empty strings become nil so callers never mistake "absent" for "blank".
func MapToDetails(result *placeDetailsResult) *domain.PlaceDetails {
	details := &domain.PlaceDetails{
		Phone:              optionalString(result.FormattedPhoneNumber),
		InternationalPhone: optionalString(result.InternationalPhoneNumber),
		Address:            optionalString(result.FormattedAddress),
		Website:            optionalString(result.Website),
	}

	if result.OpeningHours != nil {
		details.IsOpen = result.OpeningHours.OpenNow
		if len(result.OpeningHours.WeekdayText) > 0 {
			details.OpeningHours = result.OpeningHours.WeekdayText
		}
	}

	for _, r := range result.Reviews {
		details.Reviews = append(details.Reviews, domain.Review{
			Author:                  r.AuthorName,
			Rating:                  r.Rating,
			Text:                    r.Text,
			RelativeTimeDescription: r.RelativeTimeDescription,
		})
	}

	return details
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
