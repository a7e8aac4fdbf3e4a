package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"google.golang.org/genai"
)

const (
	// DefaultGeminiModel is used when no model is configured.
	DefaultGeminiModel = "gemini-2.5-flash"

	// BackendGeminiAPI and BackendVertexAI select the Gen AI endpoint.
	BackendGeminiAPI = "gemini-api"
	BackendVertexAI  = "vertex-ai"

	geminiPrompt = `Classify the clothing worn in this photo. ` +
		`Reply with a JSON array of at most 5 objects {"label": string, "score": number}, ` +
		`most likely first, where score is between 0 and 1. ` +
		`Each label should describe the main garment including its colour, e.g. "red t-shirt".`
)

// contentGenerator is the part of the Gen AI client the classifier uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiOptions configures the Gemini classifier.
type GeminiOptions struct {
	Model string

	// Backend is BackendGeminiAPI (default) or BackendVertexAI.
	Backend string

	// APIKey defaults to the GOOGLE_API_KEY environment variable.
	APIKey string
}

// Gemini labels garments with a Gemini model.
type Gemini struct {
	models contentGenerator
	model  string
	logger hclog.Logger
}

// NewGemini creates a Gen AI client. The Gemini API backend requires an API
// key; Vertex AI uses application default credentials.
func NewGemini(ctx context.Context, opts GeminiOptions, logger hclog.Logger) (*Gemini, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	cfg := &genai.ClientConfig{}
	switch opts.Backend {
	case BackendVertexAI:
		cfg.Backend = genai.BackendVertexAI
	case "", BackendGeminiAPI:
		cfg.Backend = genai.BackendGeminiAPI
	default:
		return nil, fmt.Errorf("unknown genai backend %q (valid: %s, %s)", opts.Backend, BackendGeminiAPI, BackendVertexAI)
	}

	if cfg.Backend == genai.BackendGeminiAPI {
		apiKey := opts.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("GOOGLE_API_KEY environment variable is required for the %s backend", BackendGeminiAPI)
		}
		cfg.APIKey = apiKey
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gen AI client: %w", err)
	}

	model := opts.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	logger.Debug("gen ai client created", "backend", opts.Backend, "model", model)

	return &Gemini{models: client.Models, model: model, logger: logger}, nil
}

// Classify sends a downscaled JPEG of img with the labelling prompt.
func (g *Gemini) Classify(ctx context.Context, img image.Image) ([]Classification, error) {
	data, mime, err := encodeJPEG(img)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(geminiPrompt),
			genai.NewPartFromBytes(data, mime),
		}, genai.RoleUser),
	}

	var temperature float32
	resp, err := g.models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in response")
	}

	return parseLabels(resp.Text())
}

// parseLabels decodes a JSON array of classifications, tolerating a
// surrounding markdown code fence.
func parseLabels(text string) ([]Classification, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	var out []Classification
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	return out, nil
}
