// README: Places handler; nearby POI search via Google Places.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"pakguide/internal/modules/session"
	"pakguide/internal/types"
)

// PlacesSearcher is the narrow slice of the places service the handler needs.
type PlacesSearcher interface {
	SearchNearby(ctx context.Context, query string, coords *types.Coordinates) ([]types.POI, error)
}

type PlacesHandler struct {
	places  PlacesSearcher
	session *session.Service
}

func NewPlacesHandler(places PlacesSearcher, sessionSvc *session.Service) *PlacesHandler {
	return &PlacesHandler{places: places, session: sessionSvc}
}

type nearbyRequest struct {
	Query string `json:"query"`
}

// Nearby handles POST /api/places/nearby. The search is biased to the
// session's current coordinate when one is set. Results are returned
// directly and never replace the session's active POI set, which derives
// only from the latest model reply.
func (h *PlacesHandler) Nearby(c *gin.Context) {
	var req nearbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(c, http.StatusBadRequest, "missing query")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	pois, err := h.places.SearchNearby(ctx, req.Query, h.session.Location())
	if err != nil {
		writeError(c, http.StatusBadGateway, "places search failed")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"pois": pois})
}
