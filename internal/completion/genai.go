package completion

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

const defaultGenAIModel = "gemini-2.0-flash"

// GenAIService generates completions with Google's Gemini API.
type GenAIService struct {
	client *genai.Client
	params Params
}

func NewGenAIService(ctx context.Context, cfg Config) (*GenAIService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	params := cfg.Params
	if params.Model == "" || params.Model == DefaultModel {
		params.Model = defaultGenAIModel
	}

	return &GenAIService{client: client, params: withDefaults(params)}, nil
}

func (s *GenAIService) Name() string {
	return "genai"
}

func (s *GenAIService) Complete(ctx context.Context, prompt string) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(s.params.Temperature)),
		MaxOutputTokens: int32(s.params.MaxTokens),
		CandidateCount:  int32(s.params.N),
	}
	if s.params.Stop != "" {
		genCfg.StopSequences = []string{s.params.Stop}
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.params.Model, genai.Text(prompt), genCfg)
	if err != nil {
		result.Error = fmt.Sprintf("generate failed: %v", err)
		return result, fmt.Errorf("GenAI generate failed: %w", err)
	}

	if len(resp.Candidates) == 0 {
		result.Error = "no candidates returned"
		return result, fmt.Errorf("no candidates returned")
	}

	result.Text = resp.Text()
	result.Metadata = map[string]string{
		"model":         s.params.Model,
		"finish_reason": string(resp.Candidates[0].FinishReason),
	}

	return result, nil
}

func (s *GenAIService) IsAvailable(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("GenAI client not configured")
	}
	return nil
}
