/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/valpere/lingo/internal/completion"
	"github.com/valpere/lingo/internal/detector"
	"github.com/valpere/lingo/internal/gateway"
	"github.com/valpere/lingo/internal/store"
)

// apiKeyEnv maps a service to the conventional env var holding its key.
var apiKeyEnv = map[string][]string{
	"openai":     {"OPENAI_API_KEY"},
	"openrouter": {"OPENROUTER_API_KEY"},
	"genai":      {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

func bindFlag(key, flag string) {
	_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
}

func setDefaults() {
	viper.SetDefault("service", "openai")
	viper.SetDefault("model", "")
	viper.SetDefault("base_url", "")
	viper.SetDefault("timeout", 0)
	viper.SetDefault("max_tokens", completion.DefaultMaxTokens)
	viper.SetDefault("n", completion.DefaultN)
	viper.SetDefault("stop", completion.DefaultStop)
	viper.SetDefault("temperature", completion.DefaultTemperature)
	viper.SetDefault("server.addr", ":3000")
	viper.SetDefault("history.db", "")
	viper.SetDefault("detect_language", false)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
}

// loadConfig layers, lowest first: defaults, config file, .env, LINGO_* env, flags.
func loadConfig() error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	setDefaults()

	viper.SetEnvPrefix("LINGO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lingo")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lingo"))
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func buildLogger() (*zap.Logger, error) {
	var config zap.Config
	if viper.GetString("log.format") == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(level)

	return config.Build()
}

// resolveAPIKey prefers LINGO_API_KEY / api_key, then the service's own env var.
func resolveAPIKey(service string) string {
	if key := viper.GetString("api_key"); key != "" {
		return key
	}
	for _, name := range apiKeyEnv[service] {
		if key := os.Getenv(name); key != "" {
			return key
		}
	}
	return ""
}

func completionConfig(service string) completion.Config {
	return completion.Config{
		APIKey:  resolveAPIKey(service),
		BaseURL: viper.GetString("base_url"),
		Timeout: viper.GetDuration("timeout"),
		Params: completion.Params{
			Model:       viper.GetString("model"),
			MaxTokens:   viper.GetInt("max_tokens"),
			N:           viper.GetInt("n"),
			Stop:        viper.GetString("stop"),
			Temperature: viper.GetFloat64("temperature"),
		},
	}
}

func openHistory(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return db, nil
}

// buildGateway wires the configured completion service, and history when
// history.db is set. The returned cleanup closes what was opened.
func buildGateway(ctx context.Context) (*gateway.Gateway, func(), error) {
	service := viper.GetString("service")
	svc, err := completion.New(ctx, service, completionConfig(service))
	if err != nil {
		return nil, nil, err
	}
	if err := svc.IsAvailable(ctx); err != nil {
		logger.Warn("completion service not ready", zap.String("service", svc.Name()), zap.Error(err))
	}

	var opts []gateway.Option
	cleanup := func() {}

	if path := viper.GetString("history.db"); path != "" {
		db, err := openHistory(path)
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() { _ = db.Close() }
		opts = append(opts, gateway.WithHistory(db))
		if viper.GetBool("detect_language") {
			det := detector.New()
			det.Preload()
			opts = append(opts, gateway.WithDetector(det))
		}
		logger.Info("request history enabled", zap.String("db", path))
	}

	return gateway.New(svc, logger, opts...), cleanup, nil
}
