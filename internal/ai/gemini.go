package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"pakguide/internal/types"
)

const (
	// DefaultModel balances answer quality against latency for guide chat.
	DefaultModel = "gemini-2.5-flash"

	// defaultImagePrompt is substituted when a turn carries an image but no text.
	defaultImagePrompt = "Describe this image"

	// fallbackReplyText is shown when the model returns no text at all.
	fallbackReplyText = "Maloomat dastiyaab nahi hain."
)

// systemInstruction fixes the assistant persona and the hidden location-block
// output protocol. The <<<LOC>>> format here must stay in sync with parser.go.
const systemInstruction = `
You are the 'Pakistan World Guide AI'. Your goal is to provide detailed, accurate information about cities, areas, streets, markets, malls, hospitals, schools, banks, tourist spots, and historical places in Pakistan.

**Guidelines:**
1.  **Language:** Answer in a mix of friendly Urdu (Roman script) and English.
2.  **Country Name:** Always refer to the country as "Pakistan" in English.
3.  **Structure:**
    *   **Summary:** A short summary.
    *   **Details:** Bullet points with details (Address, Timing, Phone, Landmarks).
    *   **Source:** Mention source at the end (e.g., Google Maps / OpenStreetMap).
4.  **Image Analysis:** If an image is provided, identify signboards/landmarks to suggest location.
5.  **Map Data Protocol (CRITICAL):**
    If the user asks about places that should be shown on a map, provide the coordinates in a HIDDEN JSON block at the very end.
    **Support MULTIPLE locations.**
    **Categories:** Assign a category to each place: "police", "hospital", "school", "food", "bank", "park", "shop", or "default".

    Format:
    <<<LOC>>>[{"lat": 31.5204, "lng": 74.3587, "title": "Liberty Market", "category": "shop"}, {"lat": 31.48, "lng": 74.3, "title": "Jinnah Hospital", "category": "hospital"}]<<<LOC>>>

    *   Ensure coordinates are accurate for Pakistan.

6.  **Style:** Professional, helpful, respectful. Black & White theme compatible (keep text clean).
`

// GeminiProvider implements Provider using Google's Gemini models with the
// maps grounding tool enabled.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiProvider initializes a new Gemini-backed provider. An empty apiKey
// is accepted: the provider is still constructed and every call degrades to a
// deterministic apology reply instead of crashing at startup.
func NewGeminiProvider(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiProvider, error) {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &GeminiProvider{model: model, logger: logger}
	if apiKey == "" {
		logger.Warn("gemini api key missing, model calls will fail with an apology reply")
		return p, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	p.client = client
	return p, nil
}

// SendTurn implements Provider. Transport and SDK failures are converted into
// an apology Reply rather than errors: the caller's failure path is reserved
// for its own boundary, and the already-committed user message stays intact.
func (p *GeminiProvider) SendTurn(ctx context.Context, turn Turn) (*Reply, error) {
	if p.client == nil {
		return apologyReply(fmt.Errorf("gemini api key is not configured")), nil
	}

	contents, err := buildContents(turn)
	if err != nil {
		p.logger.Warn("invalid turn input", zap.Error(err))
		return apologyReply(err), nil
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, p.generateConfig(turn.Location))
	if err != nil {
		p.logger.Warn("gemini generation failed", zap.Error(err))
		return apologyReply(err), nil
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		text = fallbackReplyText
	}

	display, pois, parseErr := extractPOIBlock(text)
	if parseErr != nil {
		// Non-fatal: the block is stripped and the reply is still shown.
		p.logger.Warn("invalid location block in model reply", zap.Error(parseErr))
	}

	return &Reply{
		Text:      display,
		Citations: extractCitations(resp),
		POIs:      pois,
	}, nil
}

// generateConfig enables maps grounding and, when coordinates are present,
// attaches them as an advisory retrieval bias.
func (p *GeminiProvider) generateConfig(loc *types.Coordinates) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Tools: []*genai.Tool{
			{GoogleMaps: &genai.GoogleMaps{}},
		},
	}
	if loc != nil {
		cfg.ToolConfig = &genai.ToolConfig{
			RetrievalConfig: &genai.RetrievalConfig{
				LatLng: &genai.LatLng{
					Latitude:  genai.Ptr(loc.Latitude),
					Longitude: genai.Ptr(loc.Longitude),
				},
			},
		}
	}
	return cfg
}

// buildContents assembles the role-tagged parts for one turn: an optional
// inline image followed by the prompt text.
func buildContents(turn Turn) ([]*genai.Content, error) {
	var parts []*genai.Part

	if turn.Image != "" {
		mime, data, err := decodeImagePayload(turn.Image)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, mime))
	}

	prompt := turn.Prompt
	if strings.TrimSpace(prompt) == "" {
		prompt = defaultImagePrompt
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil
}

// decodeImagePayload strips a data-URI prefix ("data:image/png;base64,...")
// if present and decodes the base64 payload into raw bytes. Bare base64
// strings are accepted and assumed to be JPEG.
func decodeImagePayload(image string) (string, []byte, error) {
	mime := "image/jpeg"
	payload := image

	if strings.HasPrefix(image, "data:") {
		header, rest, ok := strings.Cut(image, ",")
		if !ok {
			return "", nil, fmt.Errorf("malformed data uri")
		}
		payload = rest
		if m := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"); m != "" {
			mime = m
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return mime, data, nil
}

// extractCitations passes grounding metadata through as flat citations.
func extractCitations(resp *genai.GenerateContentResponse) []Citation {
	if len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return nil
	}

	var citations []Citation
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		switch {
		case chunk.Maps != nil:
			citations = append(citations, Citation{Kind: CitationMap, URI: chunk.Maps.URI, Title: chunk.Maps.Title})
		case chunk.Web != nil:
			citations = append(citations, Citation{Kind: CitationWeb, URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}
	return citations
}

func apologyReply(err error) *Reply {
	return &Reply{Text: fmt.Sprintf("System error. Please try again. (%s)", err)}
}
