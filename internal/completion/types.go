package completion

import (
	"context"
	"time"
)

const (
	DefaultModel       = "text-davinci-003"
	DefaultMaxTokens   = 2048
	DefaultN           = 1
	DefaultStop        = ""
	DefaultTemperature = 0.5
)

// Params are the sampling parameters sent with every completion request.
type Params struct {
	Model       string  `mapstructure:"model" json:"model"`
	MaxTokens   int     `mapstructure:"max_tokens" json:"max_tokens"`
	N           int     `mapstructure:"n" json:"n"`
	Stop        string  `mapstructure:"stop" json:"stop"`
	Temperature float64 `mapstructure:"temperature" json:"temperature"`
}

// DefaultParams returns the fixed parameters: one candidate, bounded output,
// empty stop sequence, temperature 0.5.
func DefaultParams() Params {
	return Params{
		Model:       DefaultModel,
		MaxTokens:   DefaultMaxTokens,
		N:           DefaultN,
		Stop:        DefaultStop,
		Temperature: DefaultTemperature,
	}
}

// Config selects and authenticates a backend.
type Config struct {
	APIKey  string        `mapstructure:"api_key" json:"-"`
	BaseURL string        `mapstructure:"base_url" json:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
	Params  Params        `mapstructure:",squash" json:"params"`
}

type Result struct {
	ServiceName string            `json:"service_name"`
	Text        string            `json:"text"`
	Metadata    map[string]string `json:"metadata"`
	Latency     time.Duration     `json:"latency"`
	Error       string            `json:"error,omitempty"`
}

// Service sends a prompt to a completion backend and returns the first
// candidate's text verbatim.
type Service interface {
	Name() string
	Complete(ctx context.Context, prompt string) (*Result, error)
	IsAvailable(ctx context.Context) error
}
