package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	// DatabaseURL enables the durable pgvector index; without it the
	// service runs on the in-process index.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	VectorTable string `envconfig:"VECTOR_TABLE" default:"corpus_chunks"`

	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"reportforge-archive"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	// APIToken, when set, gates every endpoint behind a bearer token.
	APIToken string `envconfig:"API_TOKEN"`

	// CorpusPath is loaded and ingested at startup when set.
	CorpusPath string `envconfig:"CORPUS_PATH"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("REPORTFORGE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
