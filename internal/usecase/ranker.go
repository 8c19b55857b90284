package usecase

import (
	"math"
	"sort"

	"github.com/cyberlegal/backend/internal/domain"
)

// earthRadiusKm is the mean Earth radius
const earthRadiusKm = 6371.0

// HaversineKm returns the great-circle distance between a and b in kilometres
func HaversineKm(a, b domain.Coordinate) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Rank orders candidates by distance from origin, nearest first, and keeps
// at most limit of them. Equal distances keep discovery order.
func Rank(origin domain.Coordinate, candidates []domain.Candidate, limit int) []domain.RankedCandidate {
	if limit <= 0 || len(candidates) == 0 {
		return []domain.RankedCandidate{}
	}

	ranked := make([]domain.RankedCandidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = domain.RankedCandidate{
			Candidate:  c,
			DistanceKm: HaversineKm(origin, c.Location),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Position = i + 1
	}

	return ranked
}
