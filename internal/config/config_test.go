package config

import (
	"os"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	envVars := []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "EMBEDDING_MODEL", "EMBEDDING_DIM",
		"CHAT_MODEL", "CHAT_TEMPERATURE", "CHAT_MAX_TOKENS",
		"DATA_DIR", "DB_PATH", "CHUNK_MAX_CHARS", "CHUNK_OVERLAP",
		"RETRIEVAL_K", "API_PORT", "LOG_LEVEL", "LOG_FORMAT",
	}
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "valid config with defaults",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("DATA_DIR", t.TempDir())
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.EmbeddingModel == "text-embedding-3-small" &&
					cfg.EmbeddingDim == 1536 &&
					cfg.ChunkMaxChars == 900 &&
					cfg.ChunkOverlap == 150 &&
					cfg.RetrievalK == 6 &&
					cfg.APIPort == "8000"
			},
		},
		{
			name:     "missing API key",
			setupEnv: func(t *testing.T) {},
			wantErr:  true,
		},
		{
			name: "overlap must be smaller than max chars",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("DATA_DIR", t.TempDir())
				setEnv("CHUNK_MAX_CHARS", "100")
				setEnv("CHUNK_OVERLAP", "100")
			},
			wantErr: true,
		},
		{
			name: "invalid embedding dim",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("DATA_DIR", t.TempDir())
				setEnv("EMBEDDING_DIM", "zero")
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("DATA_DIR", t.TempDir())
				setEnv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "custom chunking and retrieval settings",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("DATA_DIR", t.TempDir())
				setEnv("CHUNK_MAX_CHARS", "500")
				setEnv("CHUNK_OVERLAP", "50")
				setEnv("RETRIEVAL_K", "10")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.ChunkMaxChars == 500 && cfg.ChunkOverlap == 50 && cfg.RetrievalK == 10
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envVars {
				unsetEnv(key)
			}
			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}
