package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"

	"murmur/agent/internal/classifier"
	"murmur/agent/internal/interrupt"
)

type Config struct {
	Server struct {
		Port     string
		LogLevel string
	}
	Filter struct {
		BlockedPhrases      string
		MinConfidence       float64
		UseClassifier       bool
		ClassifierThreshold float64
		Debug               bool
	}
	Gateway struct {
		TokenSecret   string
		TokenExpMin   int
		TokenSkewSecs int
	}
	Events struct {
		MaxPerSession int
	}
}

func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("filter.min_confidence", interrupt.DefaultMinConfidence)
	v.SetDefault("filter.use_classifier", false)
	v.SetDefault("filter.classifier_threshold", classifier.DefaultThreshold)
	v.SetDefault("filter.debug", false)

	v.SetDefault("gateway.token_exp_min", 60)
	v.SetDefault("gateway.token_skew_secs", 30)

	v.SetDefault("events.max_per_session", 200)

	// Map envs
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.log_level", "LOG_LEVEL")

	v.BindEnv("filter.blocked_phrases", "BLOCKED_INTERRUPTION_PHRASES")
	v.BindEnv("filter.min_confidence", "MIN_CONFIDENCE")
	v.BindEnv("filter.use_classifier", "USE_CLASSIFIER")
	v.BindEnv("filter.classifier_threshold", "CLASSIFIER_THRESHOLD")
	v.BindEnv("filter.debug", "FILTER_DEBUG")

	v.BindEnv("gateway.token_secret", "GATEWAY_TOKEN_SECRET")
	v.BindEnv("gateway.token_exp_min", "GATEWAY_TOKEN_EXP_MIN")
	v.BindEnv("gateway.token_skew_secs", "GATEWAY_TOKEN_SKEW_SECS")

	v.BindEnv("events.max_per_session", "EVENTS_MAX_PER_SESSION")

	var c Config
	c.Server.Port = v.GetString("server.port")
	c.Server.LogLevel = v.GetString("server.log_level")

	c.Filter.BlockedPhrases = v.GetString("filter.blocked_phrases")
	c.Filter.MinConfidence = v.GetFloat64("filter.min_confidence")
	c.Filter.UseClassifier = v.GetBool("filter.use_classifier")
	c.Filter.ClassifierThreshold = v.GetFloat64("filter.classifier_threshold")
	c.Filter.Debug = v.GetBool("filter.debug")

	c.Gateway.TokenSecret = v.GetString("gateway.token_secret")
	c.Gateway.TokenExpMin = v.GetInt("gateway.token_exp_min")
	c.Gateway.TokenSkewSecs = v.GetInt("gateway.token_skew_secs")

	c.Events.MaxPerSession = v.GetInt("events.max_per_session")

	log.Printf("config loaded: port=%s classifier=%v min_confidence=%.2f", c.Server.Port, c.Filter.UseClassifier, c.Filter.MinConfidence)
	return c
}

// EngineConfig translates process configuration into a per-engine
// config. An empty phrase list leaves the engine on its own fallback
// (env var, then built-in defaults).
func (c Config) EngineConfig() interrupt.Config {
	ec := interrupt.Config{
		MinConfidence:       c.Filter.MinConfidence,
		UseClassifier:       c.Filter.UseClassifier,
		ClassifierThreshold: c.Filter.ClassifierThreshold,
		Debug:               c.Filter.Debug,
	}
	if c.Filter.BlockedPhrases != "" {
		ec.BlockedPhrases = strings.Split(c.Filter.BlockedPhrases, ",")
	}
	return ec
}
