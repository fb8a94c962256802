// README: API gateway; registers HTTP routes and delegates to module services.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pakguide/internal/http/handlers"
	"pakguide/internal/http/middleware"
	"pakguide/internal/modules/session"
)

type ServerDeps struct {
	Session *session.Service
	Places  handlers.PlacesSearcher
	Logger  *zap.Logger
}

type Server struct {
	session *session.Service
	places  handlers.PlacesSearcher
	logger  *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		session: deps.Session,
		places:  deps.Places,
		logger:  logger,
	}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		middleware.WithRequestID(),
		middleware.Logging(s.logger),
		middleware.Recovery(s.logger),
	)

	chatHandler := handlers.NewChatHandler(s.session)
	r.POST("/api/chat/turn", chatHandler.SubmitTurn)
	r.GET("/api/chat/messages", chatHandler.Messages)
	r.GET("/api/chat/pois", chatHandler.ActivePOIs)

	locationHandler := handlers.NewLocationHandler(s.session)
	r.POST("/api/location", locationHandler.Set)
	r.POST("/api/location/refresh", locationHandler.Refresh)
	r.GET("/api/location", locationHandler.Get)

	placesHandler := handlers.NewPlacesHandler(s.places, s.session)
	r.POST("/api/places/nearby", placesHandler.Nearby)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
