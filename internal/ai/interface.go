package ai

import (
	"context"

	"pakguide/internal/types"
)

// Provider defines the contract for one chat turn against a generative model.
// The rest of the system depends only on this interface, never on the SDK's
// request/response shapes, so providers can be swapped or faked in tests.
type Provider interface {
	// SendTurn formats a single user turn (text + optional image + optional
	// location bias) into a model request and parses the raw reply into
	// display text, citations, and zero or more points of interest.
	//
	// Transport failures do not propagate: they come back as a Reply whose
	// Text is a user-facing apology embedding the error detail, with no
	// citations and no POIs. Callers treat every non-nil Reply as success.
	SendTurn(ctx context.Context, turn Turn) (*Reply, error)
}

// Turn carries one user submission into the provider.
type Turn struct {
	// Prompt is the user's text. May be empty when Image is set; the
	// provider then substitutes a fixed default instruction.
	Prompt string

	// Image is an optional data-URI-style base64 image string. At most one
	// image per turn.
	Image string

	// Location optionally biases grounding toward the user's position.
	// Advisory only; never blocks the request.
	Location *types.Coordinates
}
