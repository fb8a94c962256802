// README: Session service sequences chat turns and owns session-visible state.
package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pakguide/internal/ai"
	"pakguide/internal/types"
)

// Locator performs an asynchronous device-location query.
type Locator interface {
	Locate(ctx context.Context) (types.Coordinates, error)
}

// Service owns the message log, the active POI set, and the user coordinate,
// and sequences one full turn at a time. The gateway and the presentation
// layer never mutate this state directly: the gateway receives input
// parameters, the presentation layer reads copies.
type Service struct {
	provider ai.Provider
	locator  Locator
	logger   *zap.Logger

	turnTimeout   time.Duration
	locateTimeout time.Duration

	log *messageLog

	mu         sync.Mutex
	inFlight   bool
	activePOIs []types.POI
	location   *types.Coordinates

	// Supersede-with-cancel state for overlapping location requests: only
	// the newest request may commit its result.
	locSeq    uint64
	locCancel context.CancelFunc

	now   func() time.Time
	newID func() string
}

// Config tunes the service; zero values pick sane defaults.
type Config struct {
	TurnTimeout   time.Duration
	LocateTimeout time.Duration
}

func NewService(provider ai.Provider, locator Locator, cfg Config, logger *zap.Logger) *Service {
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = 30 * time.Second
	}
	if cfg.LocateTimeout <= 0 {
		cfg.LocateTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Service{
		provider:      provider,
		locator:       locator,
		logger:        logger,
		turnTimeout:   cfg.TurnTimeout,
		locateTimeout: cfg.LocateTimeout,
		log:           newMessageLog(),
		now:           time.Now,
		newID:         func() string { return uuid.NewString() },
	}

	s.log.Append(Message{
		ID:        s.newID(),
		Role:      RoleAssistant,
		Text:      welcomeText,
		CreatedAt: s.now(),
	})
	return s
}

// TurnResult is what one successful turn hands back to the caller.
type TurnResult struct {
	Message Message     `json:"message"`
	POIs    []types.POI `json:"pois"`
	View    View        `json:"view"`
}

// SubmitTurn runs one full turn: commit the user message, call the gateway,
// commit the assistant message, republish the POI set.
//
// Submissions are single-flight: while a turn is outstanding, further calls
// return ErrTurnInFlight without touching the log or calling the gateway.
// A turn with neither text nor image returns ErrEmptyTurn. The user message
// is committed before the gateway call, so a failed turn leaves it in the
// log; retrying re-sends the text as a brand-new turn.
func (s *Service) SubmitTurn(ctx context.Context, text, image string) (*TurnResult, error) {
	s.mu.Lock()
	if strings.TrimSpace(text) == "" && image == "" {
		s.mu.Unlock()
		return nil, ErrEmptyTurn
	}
	if s.inFlight {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	s.inFlight = true
	loc := s.location
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	s.log.Append(Message{
		ID:        s.newID(),
		Role:      RoleUser,
		Text:      text,
		Image:     image,
		CreatedAt: s.now(),
	})

	callCtx, cancel := context.WithTimeout(ctx, s.turnTimeout)
	defer cancel()

	reply, err := s.provider.SendTurn(callCtx, ai.Turn{Prompt: text, Image: image, Location: loc})
	if err != nil || reply == nil {
		// Diagnostic only: the user message stays, no assistant message is
		// appended, and the POI set from earlier turns is untouched.
		s.logger.Error("model gateway failed", zap.Error(err))
		return nil, ErrTurnFailed
	}

	botMsg := Message{
		ID:        s.newID(),
		Role:      RoleAssistant,
		Text:      reply.Text,
		Citations: reply.Citations,
		CreatedAt: s.now(),
	}
	s.log.Append(botMsg)

	view := ViewChat
	s.mu.Lock()
	// The active POI set derives only from the most recent bot message:
	// replaced wholesale when POIs were found, cleared otherwise.
	s.activePOIs = reply.POIs
	s.mu.Unlock()
	if len(reply.POIs) > 0 {
		view = ViewMap
	}

	return &TurnResult{Message: botMsg, POIs: append([]types.POI(nil), reply.POIs...), View: view}, nil
}

// SetLocation replaces the user coordinate wholesale with a device-reported
// position.
func (s *Service) SetLocation(coords types.Coordinates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.location = &coords
}

// RequestLocation starts an asynchronous location query and returns
// immediately. Overlapping requests supersede each other: starting a new one
// cancels the in-flight one, and only the newest may commit its result. On
// failure the prior coordinates are retained and a diagnostic is logged.
func (s *Service) RequestLocation(ctx context.Context) {
	s.mu.Lock()
	s.locSeq++
	seq := s.locSeq
	if s.locCancel != nil {
		s.locCancel()
	}
	// Detached from the caller's context so the query survives the HTTP
	// request that triggered it.
	locCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.locateTimeout)
	s.locCancel = cancel
	locator := s.locator
	s.mu.Unlock()

	go func() {
		defer cancel()
		coords, err := locator.Locate(locCtx)

		s.mu.Lock()
		defer s.mu.Unlock()
		if seq != s.locSeq {
			return // superseded by a newer request
		}
		if err != nil {
			s.logger.Warn("location query failed", zap.Error(err))
			return
		}
		s.location = &coords
	}()
}

// Messages returns a copy of the ordered session log.
func (s *Service) Messages() []Message {
	return s.log.All()
}

// ActivePOIs returns a copy of the POIs from the most recent bot message
// that contained any.
func (s *Service) ActivePOIs() []types.POI {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.POI(nil), s.activePOIs...)
}

// Location returns the current user coordinate, or nil when none was ever
// reported.
func (s *Service) Location() *types.Coordinates {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.location == nil {
		return nil
	}
	c := *s.location
	return &c
}
