package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama3.2"
)

// OllamaService uses a self-hosted Ollama model through /api/generate.
// Ollama always returns one candidate, so Params.N is not sent.
type OllamaService struct {
	baseURL string
	params  Params
	client  *http.Client
}

type ollamaOptions struct {
	NumPredict  int      `json:"num_predict"`
	Temperature float64  `json:"temperature"`
	Stop        []string `json:"stop,omitempty"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func NewOllamaService(cfg Config) *OllamaService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	params := cfg.Params
	if params.Model == "" || params.Model == DefaultModel {
		params.Model = defaultOllamaModel
	}
	return &OllamaService{
		baseURL: baseURL,
		params:  withDefaults(params),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *OllamaService) Name() string {
	return "ollama"
}

func (s *OllamaService) Complete(ctx context.Context, prompt string) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	reqBody := ollamaRequest{
		Model:  s.params.Model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			NumPredict:  s.params.MaxTokens,
			Temperature: s.params.Temperature,
		},
	}
	if s.params.Stop != "" {
		reqBody.Options.Stop = []string{s.params.Stop}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal request: %v", err)
		return result, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/api/generate", s.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		result.Error = fmt.Sprintf("API returned status %d", resp.StatusCode)
		return result, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, fmt.Errorf("failed to decode response: %w", err)
	}

	result.Text = ollamaResp.Response
	result.Metadata = map[string]string{"model": s.params.Model}

	return result, nil
}

func (s *OllamaService) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/tags", s.baseURL), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("Ollama not available: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Ollama returned status %d", resp.StatusCode)
	}
	return nil
}
