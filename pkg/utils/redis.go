// pkg/utils/redis.go

package utils

import (
	"crypto/sha256"
	"fmt"
)

// RedisKeyConfig holds configuration for Redis key generation
type RedisKeyConfig struct {
	HashKeys  bool
	KeyPrefix string
}

// RedisKeyManager builds the Redis keys of session blobs
type RedisKeyManager struct {
	config RedisKeyConfig
}

func NewRedisKeyManager(config RedisKeyConfig) *RedisKeyManager {
	return &RedisKeyManager{
		config: config,
	}
}

// GetKey returns <prefix>:session:<id>:<name>. The session id is hashed
// when HashKeys is set so raw cookie values never appear in Redis.
func (m *RedisKeyManager) GetKey(sessionID, name string) string {
	id := sessionID
	if m.config.HashKeys {
		id = HashString(sessionID)
	}
	key := fmt.Sprintf("session:%s:%s", id, name)
	if m.config.KeyPrefix != "" {
		key = fmt.Sprintf("%s:%s", m.config.KeyPrefix, key)
	}
	return key
}

// HashString returns the hex SHA-256 of input
func HashString(input string) string {
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash)
}
