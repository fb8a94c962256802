package ai

import "pakguide/internal/types"

// CitationKind distinguishes where a grounding reference points.
type CitationKind string

const (
	CitationWeb CitationKind = "web"
	CitationMap CitationKind = "map"
)

// Citation is a source reference the model attached to support its answer.
// It has no lifecycle beyond the message that owns it.
type Citation struct {
	Kind  CitationKind `json:"kind"`
	URI   string       `json:"uri"`
	Title string       `json:"title"`
}

// Reply is the parsed result of one model turn.
type Reply struct {
	// Text is the display text with any hidden location block removed.
	Text string `json:"text"`

	// Citations are passed through verbatim from the grounding metadata,
	// independent of POI parsing.
	Citations []Citation `json:"citations,omitempty"`

	// POIs are the locations extracted from the hidden block, if any.
	POIs []types.POI `json:"pois,omitempty"`
}
