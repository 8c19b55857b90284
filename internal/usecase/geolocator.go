package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/cyberlegal/backend/internal/domain"
)

var (
	placeNameSpaces = regexp.MustCompile(`\s+`)
	// Trailing commas and stray punctuation left by form input
	placeNameEdgePunctuation = regexp.MustCompile(`^[\s,;.\-]+|[\s,;.\-]+$`)
)

// User-visible messages; every one asks for manual entry
const (
	msgPermissionDenied = "Location permission denied. Please enter your city manually."
	msgUnavailable      = "Unable to get your location. Please enter your city manually."
	msgUnsupported      = "Geolocation not supported. Please enter your city manually."
	msgNotFound         = "City not found. Please try another city name."
	msgLookupTimeout    = "Location lookup timed out. Please try again."
	msgInvalidInput     = "Please enter a city name or allow location access."
)

// GeolocatorConfig holds configuration for the geolocator
type GeolocatorConfig struct {
	Region  string
	Timeout time.Duration
}

// Geolocator turns device coordinates, device errors or a typed place name
// into a single coordinate
type Geolocator struct {
	client  domain.PlacesClient
	region  string
	timeout time.Duration
}

// NewGeolocator creates a geolocator using the provider's geocoding service
func NewGeolocator(client domain.PlacesClient, config GeolocatorConfig) *Geolocator {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Geolocator{
		client:  client,
		region:  config.Region,
		timeout: timeout,
	}
}

// Resolve returns the coordinate for input. Every failure is a *domain.LocationError.
func (g *Geolocator) Resolve(ctx context.Context, input domain.LocationInput) (domain.Coordinate, error) {
	if input.Coordinate != nil {
		if input.Coordinate.Valid() {
			return *input.Coordinate, nil
		}
		if strings.TrimSpace(input.PlaceName) == "" {
			return domain.Coordinate{}, &domain.LocationError{
				Reason:  domain.LocationInvalidInput,
				Message: msgInvalidInput,
				Err:     fmt.Errorf("%w: coordinate out of range", domain.ErrInvalidRequest),
			}
		}
	}

	if strings.TrimSpace(input.PlaceName) != "" {
		return g.Geocode(ctx, input.PlaceName)
	}

	if input.DeviceError != "" {
		return domain.Coordinate{}, deviceError(input.DeviceError)
	}

	return domain.Coordinate{}, &domain.LocationError{
		Reason:  domain.LocationInvalidInput,
		Message: msgInvalidInput,
		Err:     domain.ErrInvalidRequest,
	}
}

// Geocode resolves a typed place name with a bounded wait
func (g *Geolocator) Geocode(ctx context.Context, placeName string) (domain.Coordinate, error) {
	query := g.NormalizePlaceName(placeName)
	if query == "" {
		return domain.Coordinate{}, &domain.LocationError{
			Reason:  domain.LocationInvalidInput,
			Message: msgInvalidInput,
			Err:     domain.ErrInvalidRequest,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	coord, err := g.client.Geocode(ctx, query)
	if err != nil {
		log.Printf("[Locator] Geocoding %q failed: %v", query, err)
		switch {
		case errors.Is(err, domain.ErrLocationNotFound):
			return domain.Coordinate{}, &domain.LocationError{Reason: domain.LocationNotFound, Message: msgNotFound, Err: err}
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
			return domain.Coordinate{}, &domain.LocationError{Reason: domain.LocationTimeout, Message: msgLookupTimeout, Err: err}
		default:
			return domain.Coordinate{}, err
		}
	}
	if coord == nil || !coord.Valid() {
		return domain.Coordinate{}, &domain.LocationError{Reason: domain.LocationNotFound, Message: msgNotFound, Err: domain.ErrLocationNotFound}
	}

	return *coord, nil
}

// NormalizePlaceName trims, collapses whitespace and appends the region
// unless the name already ends with it
func (g *Geolocator) NormalizePlaceName(name string) string {
	cleaned := placeNameSpaces.ReplaceAllString(name, " ")
	cleaned = placeNameEdgePunctuation.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || g.region == "" {
		return cleaned
	}
	if strings.HasSuffix(strings.ToLower(cleaned), strings.ToLower(g.region)) {
		return cleaned
	}
	return cleaned + ", " + g.region
}

func deviceError(reason domain.LocationFailure) *domain.LocationError {
	switch reason {
	case domain.LocationPermissionDenied:
		return &domain.LocationError{Reason: reason, Message: msgPermissionDenied}
	case domain.LocationUnsupported:
		return &domain.LocationError{Reason: reason, Message: msgUnsupported}
	default:
		return &domain.LocationError{Reason: domain.LocationTimeout, Message: msgUnavailable}
	}
}
