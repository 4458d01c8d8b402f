package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseOrigins(t *testing.T) {
	assert.Nil(t, parseOrigins(""))
	assert.Equal(t, []string{"http://a", "http://b"}, parseOrigins(" http://a , ,http://b"))
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("EXAM_CACHE_TTL_MINUTES", "5")
	t.Setenv("MAX_DB_CONNS", "not-a-number")
	t.Setenv("SGP_API_URL", "http://api.local/")

	cfg := Load()

	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, 5*time.Minute, cfg.ExamCacheTTL)
	assert.Equal(t, int32(16), cfg.MaxDBConns)
	assert.Equal(t, "http://api.local", cfg.APIBaseURL)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "prova:42:payload", CacheKey.ExamPayloadKey(42))
	assert.Equal(t, "provas:events", CacheKey.ExamEventsChannel())
}
