package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar(), hashSalt: "salt"}

	l.Info("login", "email", "ana@example.com", "user_id", "abc123", "path", "/api/entries")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "[REDACTED]", fields["email"])
		assert.Equal(t, "/api/entries", fields["path"])
		hashed, _ := fields["user_id"].(string)
		assert.Contains(t, hashed, "hash:")
		assert.NotContains(t, hashed, "abc123")
	}
}

func TestWithKeepsSalt(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := (&Logger{SugaredLogger: zap.New(core).Sugar(), hashSalt: "s"}).With("component", "search")
	l.Warn("embed unavailable", "user_id", "u1")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "search", fields["component"])
	assert.Equal(t, l.hashValue("u1"), fields["user_id"])
}
