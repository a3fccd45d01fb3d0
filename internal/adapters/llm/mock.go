package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/dbu-intelligence/navigator/internal/domain"
)

// MockInference answers locally without any network. Useful for dev and demos.
type MockInference struct{}

func NewMockInference() *MockInference {
	return &MockInference{}
}

func (m *MockInference) Send(_ context.Context, req domain.InferenceRequest) (domain.InferenceResponse, error) {
	var b strings.Builder
	b.WriteString("**DBU Navigator (offline)**\n\n")
	if msg := strings.TrimSpace(req.Message); msg != "" {
		fmt.Fprintf(&b, "- You asked: %q\n", msg)
	}
	if req.Image != nil {
		fmt.Fprintf(&b, "- You attached %s (%d bytes)\n", req.Image.Name, len(req.Image.Data))
	}
	b.WriteString("- Remember to wear warm clothes!")

	return domain.InferenceResponse{Reply: b.String()}, nil
}
