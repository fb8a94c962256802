// README: Hidden location-block protocol for model replies.
//
// A model reply may embed, anywhere in its text, exactly one block of the
// form <<<LOC>>>JSON<<<LOC>>> where JSON is an array of POI objects (or a
// single object, legacy format). The block is invisible to the user: it is
// stripped from the display text and its content becomes the active POI set.
package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"pakguide/internal/types"
)

// locDelimiter is the literal delimiter on both sides of the hidden block.
const locDelimiter = "<<<LOC>>>"

// locBlockRe matches the first, shortest span between two delimiters. The
// block may span multiple lines.
var locBlockRe = regexp.MustCompile(`(?s)` + locDelimiter + `(.*?)` + locDelimiter)

// poiCandidate mirrors the embedded wire format. Lat/Lng are pointers so a
// missing coordinate is distinguishable from a legitimate zero value.
type poiCandidate struct {
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
}

// extractPOIBlock splits a raw model reply into display text and POIs.
//
// When no delimited block exists, the text is returned unchanged with no
// POIs. When the block's JSON is malformed the block is stripped anyway
// (strip-on-failure) and the error is returned so the caller can log it;
// the result is still usable. Candidates missing a coordinate or a title
// are dropped; unrecognized categories fall back to the default category.
func extractPOIBlock(text string) (string, []types.POI, error) {
	m := locBlockRe.FindStringSubmatchIndex(text)
	if m == nil {
		return text, nil, nil
	}

	display := strings.TrimSpace(text[:m[0]] + text[m[1]:])
	payload := text[m[2]:m[3]]

	var candidates []poiCandidate
	if err := json.Unmarshal([]byte(payload), &candidates); err != nil {
		// Legacy single-object block.
		var single poiCandidate
		if err := json.Unmarshal([]byte(payload), &single); err != nil {
			return display, nil, err
		}
		candidates = []poiCandidate{single}
	}

	var pois []types.POI
	for _, c := range candidates {
		if c.Lat == nil || c.Lng == nil || strings.TrimSpace(c.Title) == "" {
			continue
		}
		pois = append(pois, types.POI{
			Lat:      *c.Lat,
			Lng:      *c.Lng,
			Title:    c.Title,
			Category: types.NormalizeCategory(c.Category),
		})
	}
	return display, pois, nil
}
