package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AI struct {
		Provider       string `yaml:"provider"`
		Model          string `yaml:"model"`           // generation model
		EmbeddingModel string `yaml:"embedding_model"` // memory embedder
		APIKey         string `yaml:"api_key"`
	} `yaml:"ai"`
	Memo struct {
		Topic    string `yaml:"topic"`
		Audience string `yaml:"audience"`
		Type     string `yaml:"type"`
	} `yaml:"memo"`
	Pipeline struct {
		TurnBudget      int `yaml:"turn_budget"`
		ReviewThreshold int `yaml:"review_threshold"`
	} `yaml:"pipeline"`
	Memory struct {
		Enabled bool   `yaml:"enabled"`
		DBPath  string `yaml:"db_path"`
	} `yaml:"memory"`
	Output struct {
		SectionDir string `yaml:"section_dir"`
		ModelPath  string `yaml:"model_path"`
		Markdown   string `yaml:"markdown"`
	} `yaml:"output"`
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, err
	}

	// 3. Override with Environment Variables if present
	if apiKey := os.Getenv("MEMOGEN_API_KEY"); apiKey != "" {
		cfg.AI.APIKey = apiKey
	}
	if provider := os.Getenv("MEMOGEN_AI_PROVIDER"); provider != "" {
		cfg.AI.Provider = provider
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.AI.Provider == "" {
		c.AI.Provider = "gemini"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.0-flash"
	}
	if c.AI.EmbeddingModel == "" {
		c.AI.EmbeddingModel = "text-embedding-004"
	}
	if c.Pipeline.TurnBudget <= 0 {
		c.Pipeline.TurnBudget = 6
	}
	if c.Pipeline.ReviewThreshold <= 0 {
		c.Pipeline.ReviewThreshold = 3
	}
	if c.Memory.DBPath == "" {
		c.Memory.DBPath = "results/memory.db"
	}
	if c.Output.SectionDir == "" {
		c.Output.SectionDir = "results/sections"
	}
	if c.Output.ModelPath == "" {
		c.Output.ModelPath = "results/memo.json"
	}
	if c.Output.Markdown == "" {
		c.Output.Markdown = "results/memo.md"
	}
}
