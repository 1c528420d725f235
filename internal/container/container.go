// Package container wires configuration, storage, services and handlers into
// one dependency graph built once at startup.
package container

import (
	"context"
	"fmt"

	"ballotbox/internal/auth"
	"ballotbox/internal/codes"
	"ballotbox/internal/config"
	"ballotbox/internal/handler"
	"ballotbox/internal/repository"
	"ballotbox/internal/service"
	"ballotbox/pkg/database"
	"ballotbox/pkg/logger"
	"ballotbox/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *database.PostgresDB
	RedisClient *redis.Client

	Repositories repository.Repositories
	Assigner     *codes.Assigner
	Tokens       *auth.TokenManager

	PollService          *service.PollService
	ParticipationService *service.ParticipationService
	VoteService          *service.VoteService
	VoterService         *service.VoterService
	CacheService         *service.CacheService

	PollHandler          *handler.PollHandler
	ParticipationHandler *handler.ParticipationHandler
	VoteHandler          *handler.VoteHandler
	VoterHandler         *handler.VoterHandler
	HealthHandler        *handler.HealthHandler
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Redis is optional; without it the poll snapshot cache is disabled.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	tokens, err := auth.NewTokenManager(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to build token manager: %w", err)
	}

	repos := repository.Repositories{
		Voters:         repository.NewPgVoterRepository(db),
		Polls:          repository.NewPgPollRepository(db),
		Participations: repository.NewPgParticipationRepository(db),
		Votes:          repository.NewPgVoteRepository(db),
	}

	assigner := codes.NewAssigner(map[codes.Kind]codes.ExistsFunc{
		codes.KindVoter:         repos.Voters.CodeExists,
		codes.KindPoll:          repos.Polls.CodeExists,
		codes.KindOption:        repos.Polls.OptionCodeExists,
		codes.KindParticipation: repos.Participations.CodeExists,
		codes.KindVote:          repos.Votes.CodeExists,
	})

	cacheService := service.NewCacheService(redisClient, log.Logger)
	pollService := service.NewPollService(repos, assigner, cacheService, log.Logger)
	participationService := service.NewParticipationService(repos, assigner, log.Logger)
	voteService := service.NewVoteService(repos, assigner, cacheService, log.Logger)
	voterService := service.NewVoterService(repos, assigner, tokens, log.Logger)

	return &Container{
		Config:      cfg,
		Logger:      log,
		DB:          db,
		RedisClient: redisClient,

		Repositories: repos,
		Assigner:     assigner,
		Tokens:       tokens,

		PollService:          pollService,
		ParticipationService: participationService,
		VoteService:          voteService,
		VoterService:         voterService,
		CacheService:         cacheService,

		PollHandler:          handler.NewPollHandler(pollService, log.Logger),
		ParticipationHandler: handler.NewParticipationHandler(participationService, log.Logger),
		VoteHandler:          handler.NewVoteHandler(voteService, log.Logger),
		VoterHandler:         handler.NewVoterHandler(voterService, log.Logger),
		HealthHandler:        handler.NewHealthHandler(db, redisClient, log.Logger),
	}, nil
}

// Close releases the storage connections.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.WithError(err).Warn("Failed to close Redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
