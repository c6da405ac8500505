package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIService talks to the OpenAI text completions endpoint.
type OpenAIService struct {
	apiKey  string
	baseURL string
	params  Params
	client  *http.Client
}

type openAIRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	N           int     `json:"n"`
	Stop        string  `json:"stop"`
	Temperature float64 `json:"temperature"`
}

type openAIResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func NewOpenAIService(cfg Config) *OpenAIService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIService{
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		params:  withDefaults(cfg.Params),
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *OpenAIService) Name() string {
	return "openai"
}

func (s *OpenAIService) Complete(ctx context.Context, prompt string) (*Result, error) {
	result := &Result{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if s.apiKey == "" {
		result.Error = "OpenAI API key required"
		return result, fmt.Errorf("OpenAI API key required")
	}

	jsonData, err := json.Marshal(openAIRequest{
		Model:       s.params.Model,
		Prompt:      prompt,
		MaxTokens:   s.params.MaxTokens,
		N:           s.params.N,
		Stop:        s.params.Stop,
		Temperature: s.params.Temperature,
	})
	if err != nil {
		result.Error = fmt.Sprintf("failed to marshal request: %v", err)
		return result, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		result.Error = fmt.Sprintf("API returned status %d: %v", resp.StatusCode, errResp)
		return result, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var openAIResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		result.Error = fmt.Sprintf("failed to decode response: %v", err)
		return result, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(openAIResp.Choices) == 0 {
		result.Error = "empty response from API"
		return result, fmt.Errorf("empty response from API")
	}

	result.Text = openAIResp.Choices[0].Text
	result.Metadata = map[string]string{
		"model":             s.params.Model,
		"finish_reason":     openAIResp.Choices[0].FinishReason,
		"prompt_tokens":     fmt.Sprintf("%d", openAIResp.Usage.PromptTokens),
		"completion_tokens": fmt.Sprintf("%d", openAIResp.Usage.CompletionTokens),
	}

	return result, nil
}

func (s *OpenAIService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}
