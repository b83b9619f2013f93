package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"GENIUSPREP_LLM_PROVIDER", "GENIUSPREP_LLM_TIMEOUT",
	"GENIUSPREP_HEAVY_MODEL", "GENIUSPREP_LIGHT_MODEL",
	"API_KEY", "GEMINI_API_KEY", "GENIUSPREP_GEMINI_API_KEY",
	"GENIUSPREP_ANTHROPIC_API_KEY", "GENIUSPREP_OPENAI_API_KEY",
	"GENIUSPREP_OPENAI_BASE_URL", "GENIUSPREP_OPENROUTER_API_KEY",
	"GENIUSPREP_DB", "GENIUSPREP_LOG_LEVEL", "GENIUSPREP_LOG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	lc, err := cfg.LLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "gemini", lc.Provider)
	assert.False(t, lc.HasCredential())
	assert.Zero(t, lc.Timeout)

	heavy, light := lc.Models()
	assert.Equal(t, "gemini-pro", heavy)
	assert.Equal(t, "gemini-flash", light)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
llm:
  provider: anthropic
  timeout: 45s
  anthropic:
    api_key: sk-ant-file
db: /tmp/gp.db
log:
  level: debug
media:
  max_bytes: 1048576
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "/tmp/gp.db", cfg.DB)
	assert.Equal(t, int64(1<<20), cfg.Media.MaxBytes)

	lc, err := cfg.LLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-file", lc.APIKey())
	assert.Equal(t, 45*time.Second, lc.Timeout)
	heavy, _ := lc.Models()
	assert.Equal(t, "claude-sonnet", heavy, "defaults survive a partial file")
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "llm:\n  provider: openai\n  openai:\n    api_key: from-file\n")
	t.Setenv("GENIUSPREP_OPENAI_API_KEY", "from-env")
	t.Setenv("GENIUSPREP_HEAVY_MODEL", "gpt-4.1")
	t.Setenv("GENIUSPREP_LOG_FILE", "/tmp/gp.log")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/gp.log", cfg.Log.File)

	lc, err := cfg.LLMConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-env", lc.APIKey())
	heavy, light := lc.Models()
	assert.Equal(t, "gpt-4.1", heavy)
	assert.Equal(t, "gpt-4o-mini", light)
}

func TestGeminiKeyFallbacks(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"API_KEY only", map[string]string{"API_KEY": "a"}, "a"},
		{"GEMINI_API_KEY beats API_KEY", map[string]string{"API_KEY": "a", "GEMINI_API_KEY": "g"}, "g"},
		{"prefixed wins", map[string]string{"GEMINI_API_KEY": "g", "GENIUSPREP_GEMINI_API_KEY": "p"}, "p"},
		{"prefixed beats API_KEY", map[string]string{"API_KEY": "a", "GENIUSPREP_GEMINI_API_KEY": "p"}, "p"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LLM.Gemini.APIKey)
		})
	}
}

func TestGenericAPIKeyKeepsFileKey(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "llm:\n  gemini:\n    api_key: from-file\n")
	t.Setenv("API_KEY", "generic")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.LLM.Gemini.APIKey)

	t.Setenv("GEMINI_API_KEY", "specific")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "specific", cfg.LLM.Gemini.APIKey, "named variables still override the file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"mock provider", func(c *Config) { c.LLM.Provider = "mock" }, true},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "cohere" }, false},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"bad timeout", func(c *Config) { c.LLM.Timeout = "soon" }, false},
		{"negative timeout", func(c *Config) { c.LLM.Timeout = "-1s" }, false},
		{"negative max bytes", func(c *Config) { c.Media.MaxBytes = -1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeConfig(t, "llm: [unterminated"))
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/geniusprep/config.yaml", p)
}
