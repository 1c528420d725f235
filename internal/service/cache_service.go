package service

import (
	"context"
	"encoding/json"

	"ballotbox/internal/domain"
	"ballotbox/pkg/redis"

	"go.uber.org/zap"
)

// CacheService keeps short-lived poll snapshots in Redis. Every method is
// nil-safe so the services work without a configured Redis; a caching failure
// never fails the underlying operation.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	return &CacheService{redis: redisClient, logger: logger}
}

// GetPoll returns the cached snapshot for the code, or nil on miss.
func (s *CacheService) GetPoll(ctx context.Context, code string) *domain.Poll {
	if s == nil || s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyPoll(code))
	if err != nil || data == "" {
		return nil
	}
	var poll domain.Poll
	if err := json.Unmarshal([]byte(data), &poll); err != nil {
		s.logger.Warn("Failed to decode cached poll",
			zap.String("poll", code),
			zap.Error(err))
		return nil
	}
	return &poll
}

// SetPoll caches the poll snapshot.
func (s *CacheService) SetPoll(ctx context.Context, poll *domain.Poll) {
	if s == nil || s.redis == nil {
		return
	}
	data, err := json.Marshal(poll)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, s.redis.KeyBuilder.KeyPoll(poll.Code), string(data), redis.TTLPollSnapshot); err != nil {
		s.logger.Warn("Failed to cache poll snapshot",
			zap.String("poll", poll.Code),
			zap.Error(err))
	}
}

// InvalidatePoll drops the snapshot after a vote changes the tallies.
func (s *CacheService) InvalidatePoll(ctx context.Context, code string) {
	if s == nil || s.redis == nil {
		return
	}
	if err := s.redis.Delete(ctx, s.redis.KeyBuilder.KeyPoll(code)); err != nil {
		s.logger.Warn("Failed to invalidate poll snapshot",
			zap.String("poll", code),
			zap.Error(err))
	}
}
