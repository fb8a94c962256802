// README: Chat handler; one endpoint per full turn plus session read views.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pakguide/internal/modules/session"
)

type ChatHandler struct {
	session *session.Service
}

func NewChatHandler(sessionSvc *session.Service) *ChatHandler {
	return &ChatHandler{session: sessionSvc}
}

type turnRequest struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// SubmitTurn handles POST /api/chat/turn.
func (h *ChatHandler) SubmitTurn(c *gin.Context) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.session.SubmitTurn(c.Request.Context(), req.Text, req.Image)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

// Messages handles GET /api/chat/messages.
func (h *ChatHandler) Messages(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"messages": h.session.Messages()})
}

// ActivePOIs handles GET /api/chat/pois. The payload is everything the map
// presentation consumes: the active pin set plus the user coordinate.
func (h *ChatHandler) ActivePOIs(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"pois":     h.session.ActivePOIs(),
		"location": h.session.Location(),
	})
}
