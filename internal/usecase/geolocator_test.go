package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/cyberlegal/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGeolocator(client *MockPlacesClient) *Geolocator {
	return NewGeolocator(client, GeolocatorConfig{Region: "India", Timeout: 50 * time.Millisecond})
}

func TestGeolocator_DeviceCoordinates(t *testing.T) {
	client := NewMockPlacesClient()
	g := newTestGeolocator(client)

	coord, err := g.Resolve(context.Background(), domain.LocationInput{Coordinate: &bengaluru})

	require.NoError(t, err)
	assert.Equal(t, bengaluru, coord)
	assert.Empty(t, client.geocodeCalls)
}

func TestGeolocator_DeviceErrors(t *testing.T) {
	tests := []struct {
		name       string
		failure    domain.LocationFailure
		wantReason domain.LocationFailure
		wantMsg    string
	}{
		{"permission denied", domain.LocationPermissionDenied, domain.LocationPermissionDenied, msgPermissionDenied},
		{"unsupported", domain.LocationUnsupported, domain.LocationUnsupported, msgUnsupported},
		{"timeout", domain.LocationTimeout, domain.LocationTimeout, msgUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGeolocator(NewMockPlacesClient())

			_, err := g.Resolve(context.Background(), domain.LocationInput{DeviceError: tt.failure})

			var locErr *domain.LocationError
			require.True(t, errors.As(err, &locErr))
			assert.Equal(t, tt.wantReason, locErr.Reason)
			assert.Equal(t, tt.wantMsg, locErr.Message)
			assert.Contains(t, locErr.Message, "enter your city manually")
		})
	}
}

func TestGeolocator_DeviceErrorWithPlaceName(t *testing.T) {
	client := NewMockPlacesClient()
	client.geocode = &domain.Coordinate{Lat: 12.9716, Lng: 77.5946}
	g := newTestGeolocator(client)

	coord, err := g.Resolve(context.Background(), domain.LocationInput{
		DeviceError: domain.LocationPermissionDenied,
		PlaceName:   "Bengaluru",
	})

	require.NoError(t, err)
	assert.Equal(t, 12.9716, coord.Lat)
	assert.Equal(t, []string{"Bengaluru, India"}, client.geocodeCalls)
}

func TestGeolocator_InvalidCoordinate(t *testing.T) {
	g := newTestGeolocator(NewMockPlacesClient())

	_, err := g.Resolve(context.Background(), domain.LocationInput{
		Coordinate: &domain.Coordinate{Lat: 91, Lng: 0},
	})

	locErr, ok := IsLocationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.LocationInvalidInput, locErr.Reason)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = g.Resolve(context.Background(), domain.LocationInput{
		Coordinate: &domain.Coordinate{Lat: math.NaN(), Lng: 0},
	})
	assert.Error(t, err)
}

func TestGeolocator_NoInput(t *testing.T) {
	g := newTestGeolocator(NewMockPlacesClient())

	_, err := g.Resolve(context.Background(), domain.LocationInput{PlaceName: "   "})

	locErr, ok := IsLocationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.LocationInvalidInput, locErr.Reason)
}

func TestGeolocator_CityNotFound(t *testing.T) {
	client := NewMockPlacesClient()
	client.geocodeError = domain.ErrLocationNotFound
	g := newTestGeolocator(client)

	_, err := g.Geocode(context.Background(), "Atlantis")

	locErr, ok := IsLocationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.LocationNotFound, locErr.Reason)
	assert.Equal(t, "City not found. Please try another city name.", locErr.Message)
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)
}

func TestGeolocator_GeocodeTimeout(t *testing.T) {
	client := NewMockPlacesClient()
	client.geocodeWait = true
	g := newTestGeolocator(client)

	start := time.Now()
	_, err := g.Geocode(context.Background(), "Mysuru")

	locErr, ok := IsLocationError(err)
	require.True(t, ok)
	assert.Equal(t, domain.LocationTimeout, locErr.Reason)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestGeolocator_ProviderFailureIsNotLocationError(t *testing.T) {
	client := NewMockPlacesClient()
	client.geocodeError = domain.ErrPlacesAPIFailure
	g := newTestGeolocator(client)

	_, err := g.Geocode(context.Background(), "Pune")

	_, ok := IsLocationError(err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, domain.ErrPlacesAPIFailure)
}

func TestGeolocator_NormalizePlaceName(t *testing.T) {
	g := newTestGeolocator(NewMockPlacesClient())

	tests := []struct {
		input string
		want  string
	}{
		{"Bengaluru", "Bengaluru, India"},
		{"  New   Delhi  ", "New Delhi, India"},
		{"Chennai,", "Chennai, India"},
		{"Mumbai, India", "Mumbai, India"},
		{"Pune, india", "Pune, india"},
		{"", ""},
		{" , ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, g.NormalizePlaceName(tt.input))
		})
	}

	noRegion := NewGeolocator(NewMockPlacesClient(), GeolocatorConfig{})
	assert.Equal(t, "Kochi", noRegion.NormalizePlaceName("Kochi"))
	assert.Equal(t, 10*time.Second, noRegion.timeout)
}
