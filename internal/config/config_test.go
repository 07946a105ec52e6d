package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "chat-relay", cfg.ServiceName)
	assert.Equal(t, ":3000", cfg.Addr())
	assert.Equal(t, "http://localhost:5000", cfg.AgentURL)
	assert.True(t, cfg.IsLocalStorage())
	assert.Equal(t, "/uploads", cfg.UploadURLPrefix)
	assert.Equal(t, int64(0), cfg.UploadMaxBytes)
	assert.Equal(t, 30*time.Minute, cfg.ConversationIdleTTL)
}

func TestLoadNormalizesValues(t *testing.T) {
	t.Setenv("PYTHON_AGENT_URL", " http://agent:5000/ ")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("UPLOAD_URL_PREFIX", "files/")
	t.Setenv("UPLOAD_PUBLIC_BASE_URL", "https://cdn.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://agent:5000", cfg.AgentURL)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "/files", cfg.UploadURLPrefix)
	assert.Equal(t, "https://cdn.example.com", cfg.UploadPublicBaseURL)
}

func TestLoadRejectsInvalidStorage(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown backend", env: map[string]string{"UPLOAD_STORAGE_BACKEND": "ftp"}},
		{name: "s3 without bucket", env: map[string]string{"UPLOAD_STORAGE_BACKEND": "s3"}},
		{name: "root prefix", env: map[string]string{"UPLOAD_URL_PREFIX": "/"}},
		{name: "negative limit", env: map[string]string{"UPLOAD_MAX_BYTES": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("PUBLIC_API_URL", "http://gateway:3000/api/")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://gateway:3000/api", cfg.APIURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}
