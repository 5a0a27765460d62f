package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// RoundRecord captures the audit trail of one executed round.
type RoundRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	SessionID    string    `json:"session_id"`
	Mode         string    `json:"mode"`
	Prompt       string    `json:"prompt"`
	Model        string    `json:"model"`
	ActionCount  int       `json:"action_count"`
	FailureCount int       `json:"failure_count"`
	DurationMS   int64     `json:"duration_ms"`
}

// CacheKey derives the cache key for a model/prompt pair.
func CacheKey(model, prompt string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + prompt))
	return hex.EncodeToString(sum[:])
}

// CacheEntry stores a cached generation reply.
type CacheEntry struct {
	Key       string    `json:"key"`
	Model     string    `json:"model"`
	Reply     string    `json:"reply"`
	CreatedAt time.Time `json:"created_at"`
}
