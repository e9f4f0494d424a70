package config

import (
	"os"

	"github.com/pramudya/arus/internal/embedding"
	"github.com/spf13/viper"
)

// LoadEmbeddingConfig loads embedding engine configuration from Viper and
// environment variables. It follows this precedence:
// 1. Viper configuration (from config file or ARUS_ env vars)
// 2. Direct environment variables (OPENAI_API_KEY, OLLAMA_HOST)
// 3. Default values
func LoadEmbeddingConfig() embedding.Config {
	config := embedding.DefaultConfig()

	// Load from Viper first
	if v := viper.GetString("embedding.provider"); v != "" {
		config.Provider = v
	}
	if v := viper.GetString("embedding.ollama_endpoint"); v != "" {
		config.OllamaEndpoint = v
	}
	if v := viper.GetString("embedding.ollama_model"); v != "" {
		config.OllamaModel = v
	}
	if v := viper.GetString("embedding.openai_api_key"); v != "" {
		config.OpenAIAPIKey = v
	}
	if v := viper.GetString("embedding.openai_model"); v != "" {
		config.OpenAIModel = v
	}

	// Override with direct environment variables if not set
	if config.OpenAIAPIKey == "" {
		config.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" && viper.GetString("embedding.ollama_endpoint") == "" {
		config.OllamaEndpoint = v
	}

	return config
}
