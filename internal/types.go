package internal

import "time"

// Interaction is one prompt/response exchange as kept in the optional history.
type Interaction struct {
	ID             string        `json:"id"`
	Action         string        `json:"action"`
	Text           string        `json:"text"`
	TargetLanguage string        `json:"target_language"`
	TargetLevel    string        `json:"target_level"`
	DetectedLang   string        `json:"detected_lang,omitempty"`
	Prompt         string        `json:"prompt"`
	Response       string        `json:"response"`
	Service        string        `json:"service"`
	Latency        time.Duration `json:"latency"`
	Error          string        `json:"error,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}
