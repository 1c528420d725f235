package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}
	return &KeyBuilder{prefix: prefix}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeyPoll is the cached snapshot of a single poll with its options.
func (kb *KeyBuilder) KeyPoll(code string) string {
	return kb.BuildKey(fmt.Sprintf("poll:%s:snapshot", code))
}

// KeyPublicPollsPage is one page of the public poll listing.
func (kb *KeyBuilder) KeyPublicPollsPage(page, size int) string {
	return kb.BuildKey(fmt.Sprintf("polls:public:%d:%d", page, size))
}

// KeyCustom builds an arbitrary prefixed key.
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	return kb.BuildKey(fmt.Sprintf(pattern, args...))
}
