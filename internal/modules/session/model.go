// README: Conversation message model and session errors.
package session

import (
	"errors"
	"time"

	"pakguide/internal/ai"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the session log. Immutable once created; the log
// is append-only and insertion order is display order.
type Message struct {
	ID        string        `json:"id"`
	Role      Role          `json:"role"`
	Text      string        `json:"text"`
	Image     string        `json:"image,omitempty"`
	Citations []ai.Citation `json:"citations,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// View tells the presentation layer which panel to prefer after a turn.
type View string

const (
	ViewChat View = "chat"
	ViewMap  View = "map"
)

var (
	// ErrEmptyTurn rejects a submission with neither text nor image.
	ErrEmptyTurn = errors.New("empty turn")

	// ErrTurnInFlight rejects a submission while another one is outstanding.
	// Later requests are dropped, not queued.
	ErrTurnInFlight = errors.New("turn already in flight")

	// ErrTurnFailed signals a gateway-boundary failure. The user message
	// stays committed; no assistant message was appended.
	ErrTurnFailed = errors.New("turn failed")
)

// welcomeText is the fixed assistant greeting appended when the session starts.
const welcomeText = "Hello! I am your **Pakistan World Guide AI**. \n\nI can guide you about any city, market, street, or famous place in Pakistan. \n\nHow can I help you today?"
