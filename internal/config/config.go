package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the AcadMate services.
type Config struct {
	AppName     string
	AppEnv      string
	AppPort     string
	DatabaseURL string
	RedisURL    string
	JWTSecret   string
	NATSURL     string
	CourseData  string
	OpenAIKey   string
	OpenAIBase  string
	OpenAIModel string
	Grading     GradingConfig
	CodeTTL     time.Duration
}

// GradingConfig groups the auto-grading run options.
type GradingConfig struct {
	// SkipExisting skips students whose grading artifact already exists on
	// disk. Off by default so reference-answer edits trigger a real regrade.
	SkipExisting bool
	LLMTimeout   time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional
// .env file, requiring the secrets the HTTP service needs.
func Load() (Config, error) {
	cfg, err := load()
	if err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

// LoadGrader reads configuration for the offline grading job, which has no
// HTTP surface and therefore no JWT requirement.
func LoadGrader() (Config, error) {
	return load()
}

func load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ACADMATE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "AcadMate API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("course.data", "courses/data")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("grading.skip_existing", false)
	v.SetDefault("grading.llm_timeout", "20s")
	v.SetDefault("code.ttl", "10m")

	llmTimeout, err := time.ParseDuration(v.GetString("grading.llm_timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid grading llm timeout: %w", err)
	}

	codeTTL, err := time.ParseDuration(v.GetString("code.ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid verification code ttl: %w", err)
	}

	cfg := Config{
		AppName:     v.GetString("app.name"),
		AppEnv:      v.GetString("app.env"),
		AppPort:     v.GetString("app.port"),
		DatabaseURL: v.GetString("database.url"),
		RedisURL:    v.GetString("redis.url"),
		JWTSecret:   v.GetString("jwt.secret"),
		NATSURL:     v.GetString("nats.url"),
		CourseData:  v.GetString("course.data"),
		OpenAIKey:   v.GetString("openai_api_key"),
		OpenAIBase:  v.GetString("openai_base_url"),
		OpenAIModel: v.GetString("openai.model"),
		Grading: GradingConfig{
			SkipExisting: v.GetBool("grading.skip_existing"),
			LLMTimeout:   llmTimeout,
		},
		CodeTTL: codeTTL,
	}

	return cfg, nil
}
