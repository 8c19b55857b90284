package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/cyberlegal/backend/internal/domain"
	"github.com/cyberlegal/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// maxAudioBytes bounds voice uploads
const maxAudioBytes = 25 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	locator *usecase.LocatorService
	chat    *usecase.ChatService
	voice   *usecase.VoiceService
}

// NewHandler creates a new HTTP handler. Nil services make their endpoints
// answer 503.
func NewHandler(locator *usecase.LocatorService, chat *usecase.ChatService, voice *usecase.VoiceService) *Handler {
	return &Handler{
		locator: locator,
		chat:    chat,
		voice:   voice,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "cyberlegal-backend",
		"version": "1.0.0",
	})
}

// searchRequest is the body of POST /api/v1/locator/search
type searchRequest struct {
	Mode           string   `json:"mode" binding:"required"`
	Lat            *float64 `json:"lat"`
	Lng            *float64 `json:"lng"`
	City           string   `json:"city"`
	LocationError  string   `json:"locationError"`
	Specialization string   `json:"specialization"`
	SessionID      string   `json:"sessionId"`
}

// SearchPlaces handles nearby police station / lawyer searches
func (h *Handler) SearchPlaces(c *gin.Context) {
	if h.locator == nil {
		notConfigured(c, "locator")
		return
	}

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	mode, err := usecase.ParseMode(req.Mode)
	if err != nil {
		respondError(c, err)
		return
	}

	if (req.Lat == nil) != (req.Lng == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: lat and lng must be sent together"})
		return
	}

	location := domain.LocationInput{
		PlaceName:   req.City,
		DeviceError: domain.LocationFailure(req.LocationError),
	}
	if req.Lat != nil {
		location.Coordinate = &domain.Coordinate{Lat: *req.Lat, Lng: *req.Lng}
	}

	result, err := h.locator.Search(c.Request.Context(), &domain.LocateRequest{
		Mode:           mode,
		Location:       location,
		Specialization: req.Specialization,
		SessionID:      req.SessionID,
	})
	if errors.Is(err, domain.ErrNoResults) && result != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":        noResultsMessage(mode),
			"mode":         result.Mode,
			"origin":       result.Origin,
			"radiusMeters": result.RadiusMeters,
			"places":       result.Places,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// geocodeRequest is the body of POST /api/v1/locator/geocode
type geocodeRequest struct {
	City string `json:"city" binding:"required"`
}

// Geocode resolves a typed city name to coordinates
func (h *Handler) Geocode(c *gin.Context) {
	if h.locator == nil {
		notConfigured(c, "locator")
		return
	}

	var req geocodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	coord, err := h.locator.Geocode(c.Request.Context(), req.City)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"city": req.City,
		"lat":  coord.Lat,
		"lng":  coord.Lng,
	})
}

// Resources returns helplines or legal aid links for a mode
func (h *Handler) Resources(c *gin.Context) {
	if h.locator == nil {
		notConfigured(c, "locator")
		return
	}

	mode, err := usecase.ParseMode(c.Query("mode"))
	if err != nil {
		respondError(c, err)
		return
	}

	resources, err := h.locator.Resources(mode)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resources)
}

// SessionStatus returns the current search state of a client session
func (h *Handler) SessionStatus(c *gin.Context) {
	if h.locator == nil {
		notConfigured(c, "locator")
		return
	}

	status, ok := h.locator.SessionStatus(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, status)
}

// askRequest is the body of POST /api/v1/chat/ask
type askRequest struct {
	Question       string `json:"question" binding:"required"`
	ConversationID string `json:"conversationId"`
}

// Ask answers a legal question and records it in the history
func (h *Handler) Ask(c *gin.Context) {
	if h.chat == nil {
		notConfigured(c, "chat")
		return
	}

	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	reply, err := h.chat.Ask(c.Request.Context(), req.ConversationID, req.Question)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// ListHistory returns every saved conversation
func (h *Handler) ListHistory(c *gin.Context) {
	if h.chat == nil {
		notConfigured(c, "chat")
		return
	}

	conversations, err := h.chat.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": conversations})
}

// GetConversation returns one conversation
func (h *Handler) GetConversation(c *gin.Context) {
	if h.chat == nil {
		notConfigured(c, "chat")
		return
	}

	conv, err := h.chat.Conversation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// DeleteConversation removes one conversation
func (h *Handler) DeleteConversation(c *gin.Context) {
	if h.chat == nil {
		notConfigured(c, "chat")
		return
	}

	if err := h.chat.DeleteConversation(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ClearHistory removes every conversation
func (h *Handler) ClearHistory(c *gin.Context) {
	if h.chat == nil {
		notConfigured(c, "chat")
		return
	}

	if err := h.chat.ClearHistory(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ProcessVoice forwards a recorded question and returns the spoken answer
func (h *Handler) ProcessVoice(c *gin.Context) {
	if h.voice == nil {
		notConfigured(c, "voice")
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxAudioBytes)

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: audio file is required"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: unreadable audio file"})
		return
	}
	defer file.Close()

	resp, err := h.voice.Process(c.Request.Context(), &domain.VoiceRequest{
		Audio:      file,
		Filename:   header.Filename,
		TargetLang: c.PostForm("target_lang"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondError maps domain errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	if locErr, ok := usecase.IsLocationError(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  locErr.Message,
			"reason": locErr.Reason,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrUnknownMode),
		errors.Is(err, domain.ErrUnsupportedLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
	case errors.Is(err, domain.ErrSearchSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": "A newer search replaced this one"})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
	case errors.Is(err, domain.ErrPlacesAPIFailure),
		errors.Is(err, domain.ErrPlaceNotFound):
		log.Printf("[HTTP] Places provider error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to search places. Please try again."})
	case errors.Is(err, domain.ErrAssistantUnavailable):
		log.Printf("[HTTP] Assistant error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error processing request. Please try again."})
	default:
		log.Printf("[HTTP] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func notConfigured(c *gin.Context, service string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": service + " service not configured"})
}

func noResultsMessage(mode domain.SearchMode) string {
	if mode == domain.ModeLawyer {
		return "No lawyers found nearby. Try another city or specialization."
	}
	return "No police stations found nearby. Try another city."
}
