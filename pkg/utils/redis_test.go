// pkg/utils/redis_test.go

package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGetKey(t *testing.T) {
	tests := []struct {
		name     string
		config   RedisKeyConfig
		expected string
	}{
		{
			name:     "Plain key",
			config:   RedisKeyConfig{},
			expected: "session:abc:otp_store",
		},
		{
			name:     "Prefixed key",
			config:   RedisKeyConfig{KeyPrefix: "otp"},
			expected: "otp:session:abc:otp_store",
		},
		{
			name:     "Hashed key",
			config:   RedisKeyConfig{KeyPrefix: "otp", HashKeys: true},
			expected: "otp:session:ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad:otp_store",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyMgr := NewRedisKeyManager(tt.config)
			assert.Equal(t, tt.expected, keyMgr.GetKey("abc", "otp_store"))
		})
	}
}

func TestHashedKeysDoNotCollide(t *testing.T) {
	keyMgr := NewRedisKeyManager(RedisKeyConfig{HashKeys: true})

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		key := keyMgr.GetKey(uuid.New().String(), "otp_store")
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}
