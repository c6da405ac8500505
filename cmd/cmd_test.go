package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func TestLanguageName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fr", "French"},
		{"de", "German"},
		{"French", "French"},
		{"Brazilian Portuguese", "Brazilian Portuguese"},
		{"", ""},
		{"xx-not-a-tag", "xx-not-a-tag"},
	}

	for _, tt := range tests {
		if got := languageName(tt.in); got != tt.want {
			t.Errorf("languageName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadAskText(t *testing.T) {
	askInputFile = ""

	got, err := readAskText(strings.NewReader("ignored"), []string{"Hello", "world"})
	if err != nil || got != "Hello world" {
		t.Errorf("args: got %q, %v", got, err)
	}

	got, err = readAskText(strings.NewReader("from stdin\n"), nil)
	if err != nil || got != "from stdin" {
		t.Errorf("stdin: got %q, %v", got, err)
	}
}

func TestResolveAPIKey(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	if got := resolveAPIKey("openai"); got != "sk-openai" {
		t.Errorf("expected OPENAI_API_KEY, got %q", got)
	}
	if got := resolveAPIKey("genai"); got != "gm-key" {
		t.Errorf("expected GEMINI_API_KEY, got %q", got)
	}
	if got := resolveAPIKey("ollama"); got != "" {
		t.Errorf("expected no key for ollama, got %q", got)
	}

	viper.Set("api_key", "explicit")
	if got := resolveAPIKey("openai"); got != "explicit" {
		t.Errorf("expected configured key to win, got %q", got)
	}
}

func TestCompletionConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()

	cfg := completionConfig("openai")
	if cfg.Params.MaxTokens != 2048 || cfg.Params.N != 1 || cfg.Params.Stop != "" || cfg.Params.Temperature != 0.5 {
		t.Errorf("unexpected params %+v", cfg.Params)
	}
	if cfg.Timeout != 0 {
		t.Errorf("expected no timeout by default, got %v", cfg.Timeout)
	}
}

func TestAskCmd_PrintsResponseUnmodified(t *testing.T) {
	const answer = "\n\n  I have an apple.\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/generate" {
			json.NewEncoder(w).Encode(map[string]interface{}{"response": answer, "done": true})
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	viper.Reset()
	t.Cleanup(viper.Reset)
	setDefaults()
	viper.Set("service", "ollama")
	viper.Set("base_url", server.URL)

	logger = zap.NewNop()
	askAction, askLanguage, askLevel, askInputFile, askShowPrompt = "Correct", "", "", "", false
	t.Cleanup(func() { askAction = "" })

	var out bytes.Buffer
	askCmd.SetOut(&out)
	t.Cleanup(func() { askCmd.SetOut(nil) })

	if err := askCmd.RunE(askCmd, []string{"I has a apple"}); err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if out.String() != answer+"\n" {
		t.Errorf("expected raw response, got %q", out.String())
	}
}
