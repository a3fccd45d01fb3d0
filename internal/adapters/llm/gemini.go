package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"github.com/dbu-intelligence/navigator/internal/domain"
	"github.com/dbu-intelligence/navigator/internal/observability"
)

// GeminiConfig selects between the Gemini API (APIKey) and Vertex AI
// (Project + Location).
type GeminiConfig struct {
	APIKey    string
	Project   string
	Location  string
	ModelName string
}

// generator is the slice of genai.Models the client uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient is a domain.InferenceClient that calls Gemini directly instead
// of going through the HTTP endpoint.
type GeminiClient struct {
	models    generator
	modelName string
}

// NewGeminiClient creates a GeminiClient. An API key wins over Vertex settings.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		clientCfg.APIKey = cfg.APIKey
		clientCfg.Backend = genai.BackendGeminiAPI
	case cfg.Project != "" && cfg.Location != "":
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
		clientCfg.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("gemini: an API key or a project and location are required")
	}

	modelName := cfg.ModelName
	if modelName == "" {
		modelName = "gemini-flash-latest"
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{
		models:    client.Models,
		modelName: modelName,
	}, nil
}

// Send implements domain.InferenceClient. Model failures are application
// errors and come back in the Error field; Send itself never fails.
func (g *GeminiClient) Send(ctx context.Context, req domain.InferenceRequest) (domain.InferenceResponse, error) {
	log := observability.LoggerFromContext(ctx).With("model", g.modelName)

	prompt := BuildPrompt(req.Message)

	parts := []*genai.Part{genai.NewPartFromText(prompt.User)}
	if img := req.Image; img != nil && len(img.Data) > 0 {
		mimeType := img.ContentType
		if mimeType == "" {
			mimeType = http.DetectContentType(img.Data)
		}
		log.Info("processing image attachment", "mime_type", mimeType, "bytes", len(img.Data))
		parts = append(parts, genai.NewPartFromBytes(img.Data, mimeType))
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	temp := float32(0.7)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   2048,
	}

	res, err := g.models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		log.Error("gemini generate content failed", "error", err)
		return domain.InferenceResponse{Error: fmt.Sprintf("AI Error: %v", err)}, nil
	}

	text := res.Text()
	if text == "" {
		log.Warn("gemini returned empty text")
	}
	return domain.InferenceResponse{Reply: text}, nil
}
