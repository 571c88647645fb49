// Package taste_http exposes the recommendation pipelines over HTTP. It is
// the only inbound surface: a message list in, a text (or debug bundle) out.
package taste_http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"taste-orchestrator/internal/domain"
	"taste-orchestrator/internal/usecase"

	"github.com/labstack/echo/v4"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Limits bound the inbound transcript so pipeline prompts stay within what
// the extraction backend will accept.
type Limits struct {
	MaxMessages        int
	MaxTranscriptBytes int
}

// Handler routes the taste and trip pipelines.
type Handler struct {
	taste  usecase.PipelineUsecase
	trip   usecase.PipelineUsecase
	limits Limits
}

// NewHandler wires the two pipeline variants into one handler.
func NewHandler(taste, trip usecase.PipelineUsecase, limits Limits) *Handler {
	return &Handler{taste: taste, trip: trip, limits: limits}
}

// Message is one conversation turn from the caller.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []Message `json:"messages"`
	Budget   float64   `json:"budget,omitempty"`
	Debug    bool      `json:"debug,omitempty"`
}

type entityPayload struct {
	Name        string `json:"name"`
	Year        int    `json:"year,omitempty"`
	Description string `json:"description,omitempty"`
}

type textResponse struct {
	Text string `json:"text"`
}

type debugResponse struct {
	Intent   *domain.Intent  `json:"intent"`
	Entities []entityPayload `json:"entities"`
	Text     string          `json:"text"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Taste handles POST /v1/taste.
func (h *Handler) Taste(c echo.Context) error {
	return h.run(c, h.taste)
}

// Trip handles POST /v1/trip.
func (h *Handler) Trip(c echo.Context) error {
	return h.run(c, h.trip)
}

func (h *Handler) run(c echo.Context, pipeline usecase.PipelineUsecase) error {
	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	transcript, err := h.buildTranscript(req.Messages)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	result, err := pipeline.Execute(c.Request().Context(), usecase.PipelineInput{
		Transcript: transcript,
		Budget:     req.Budget,
		Debug:      req.Debug,
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, errorResponse{Error: err.Error()})
	}

	if req.Debug {
		entities := make([]entityPayload, 0, len(result.Entities))
		for _, e := range result.Entities {
			entities = append(entities, entityPayload{
				Name:        e.Name,
				Year:        e.Year,
				Description: e.Description,
			})
		}
		return c.JSON(http.StatusOK, debugResponse{
			Intent:   result.Intent,
			Entities: entities,
			Text:     result.Text,
		})
	}

	return c.JSON(http.StatusOK, textResponse{Text: result.Text})
}

// buildTranscript validates the message list and joins it into the
// "<role>: <content>" transcript the pipeline expects, oldest first.
func (h *Handler) buildTranscript(messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages is required")
	}
	if h.limits.MaxMessages > 0 && len(messages) > h.limits.MaxMessages {
		return "", fmt.Errorf("too many messages (max %d)", h.limits.MaxMessages)
	}

	var b strings.Builder
	for i, m := range messages {
		if m.Role != "user" && m.Role != "assistant" {
			return "", fmt.Errorf("message %d has invalid role %q", i, m.Role)
		}
		if strings.TrimSpace(m.Content) == "" {
			return "", fmt.Errorf("message %d has empty content", i)
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}

	if h.limits.MaxTranscriptBytes > 0 && b.Len() > h.limits.MaxTranscriptBytes {
		return "", fmt.Errorf("transcript too large (max %d bytes)", h.limits.MaxTranscriptBytes)
	}
	return b.String(), nil
}

// Health handles GET /healthz.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}
