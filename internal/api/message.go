package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lalith-99/deskchat/internal/middleware"
	"github.com/lalith-99/deskchat/internal/service"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messages *service.MessageService
	logger   *zap.Logger
}

func NewMessageHandler(messages *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{messages: messages, logger: logger}
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	MessageID int64 `json:"messageId"`
}

// Create handles POST /api/messages
func (h *MessageHandler) Create(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}

	id, err := h.messages.Append(c.Request.Context(), middleware.GetUser(c), req.Text)
	if err != nil {
		respondError(c, h.logger, err, "failed to send message")
		return
	}

	c.JSON(http.StatusCreated, sendMessageResponse{MessageID: id})
}

// List handles GET /api/messages
//
// Always the latest window of the log, oldest first. There is no
// pagination; clients re-fetch on every view.
func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.messages.ListRecent(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "failed to list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

// importRequest is the payload old clients send to move chat history out
// of browser storage. Each entry may carry a username, but it is ignored:
// imported messages belong to the caller.
type importRequest struct {
	OldMessages []legacyEntry `json:"oldMessages" binding:"required"`
}

type legacyEntry struct {
	Text      string          `json:"text"`
	Timestamp legacyTimestamp `json:"timestamp"`
}

type importResponse struct {
	Imported int `json:"imported"`
}

// Import handles POST /api/migrate
func (h *MessageHandler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "oldMessages must be an array"})
		return
	}

	legacy := make([]service.LegacyMessage, 0, len(req.OldMessages))
	for _, e := range req.OldMessages {
		legacy = append(legacy, service.LegacyMessage{Text: e.Text, Timestamp: time.Time(e.Timestamp)})
	}

	n, err := h.messages.Import(c.Request.Context(), middleware.GetUser(c), legacy)
	if err != nil {
		respondError(c, h.logger, err, "failed to import messages")
		return
	}

	c.JSON(http.StatusOK, importResponse{Imported: n})
}

// legacyTimestamp accepts what browsers stored: an RFC 3339 / ISO string
// or Date.now() milliseconds. Anything else decodes to the zero time,
// which the service replaces with now. So do values outside the years
// 1..9999: encoding/json cannot write those back out, and one such row in
// the recent window would break GET /api/messages for everyone.
type legacyTimestamp time.Time

var (
	minLegacyMillis = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	maxLegacyMillis = time.Date(9999, time.December, 31, 23, 59, 59, 999e6, time.UTC).UnixMilli()
)

func (t *legacyTimestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
			t.setIfRepresentable(parsed)
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t.setMillis(float64(ms))
		}
		return nil
	}

	if ms, err := strconv.ParseFloat(string(data), 64); err == nil {
		t.setMillis(ms)
	}
	return nil
}

func (t *legacyTimestamp) setMillis(ms float64) {
	if math.IsNaN(ms) || ms < float64(minLegacyMillis) || ms > float64(maxLegacyMillis) {
		return
	}
	*t = legacyTimestamp(time.UnixMilli(int64(ms)))
}

func (t *legacyTimestamp) setIfRepresentable(at time.Time) {
	if y := at.UTC().Year(); y < 1 || y > 9999 {
		return
	}
	*t = legacyTimestamp(at)
}
