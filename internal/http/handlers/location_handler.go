// README: Location handler; device-reported coordinates and async refresh.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pakguide/internal/modules/session"
	"pakguide/internal/types"
)

type LocationHandler struct {
	session *session.Service
}

func NewLocationHandler(sessionSvc *session.Service) *LocationHandler {
	return &LocationHandler{session: sessionSvc}
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Set handles POST /api/location: the device reports its position.
func (h *LocationHandler) Set(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		writeError(c, http.StatusBadRequest, "missing latitude or longitude")
		return
	}
	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		writeError(c, http.StatusBadRequest, "coordinates out of range")
		return
	}

	h.session.SetLocation(types.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude})
	writeJSON(c, http.StatusOK, gin.H{"location": h.session.Location()})
}

// Refresh handles POST /api/location/refresh: starts an asynchronous
// location query and returns immediately. A newer refresh supersedes an
// in-flight one.
func (h *LocationHandler) Refresh(c *gin.Context) {
	h.session.RequestLocation(c.Request.Context())
	c.Status(http.StatusAccepted)
}

// Get handles GET /api/location.
func (h *LocationHandler) Get(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"location": h.session.Location()})
}
