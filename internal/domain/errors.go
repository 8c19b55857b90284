package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnknownMode is returned when a search mode is not one of the supported modes
	ErrUnknownMode = errors.New("unknown search mode")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrPlacesAPIFailure is returned when the places provider request fails
	ErrPlacesAPIFailure = errors.New("places API request failed")

	// ErrPlaceNotFound is returned when the provider has no record for a place ID
	ErrPlaceNotFound = errors.New("place not found")

	// ErrLocationNotFound is returned when a free-text place name cannot be geocoded
	ErrLocationNotFound = errors.New("location not found")

	// ErrNoResults is returned when no places were found even after the radius fallback
	ErrNoResults = errors.New("no places found nearby")

	// ErrSearchSuperseded is returned when a newer search for the same session finished first
	ErrSearchSuperseded = errors.New("search superseded by a newer search")

	// ErrAssistantUnavailable is returned when the question-answering or voice API fails
	ErrAssistantUnavailable = errors.New("assistant API unavailable")

	// ErrConversationNotFound is returned when a chat history entry does not exist
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrUnsupportedLanguage is returned when the voice target language is not supported
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
