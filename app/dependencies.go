package app

import (
	"fmt"

	"github.com/upb/authgate/config"
	"github.com/upb/authgate/middleware"
	"github.com/upb/authgate/verifier"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Auth
	Verifier       *verifier.Verifier
	AuthMiddleware *middleware.AuthMiddleware
}

// NewDependencies creates and wires up all application dependencies.
// The verifier is built exactly once here; a bad secret or algorithm list
// fails startup instead of individual requests.
func NewDependencies(cfg *config.Config, logger *zap.Logger, opts ...verifier.Option) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initAuth(cfg, opts...); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

func (d *Dependencies) initAuth(cfg *config.Config, opts ...verifier.Option) error {
	v, err := verifier.New(verifier.Config{
		Secret:     []byte(cfg.Auth.JWTSecret),
		Algorithms: cfg.Auth.Algorithms,
		Leeway:     cfg.Auth.Leeway,
		Issuer:     cfg.Auth.Issuer,
		Audience:   cfg.Auth.Audience,
	}, opts...)
	if err != nil {
		return err
	}

	d.Verifier = v
	d.AuthMiddleware = middleware.NewAuthMiddleware(v, d.Logger,
		middleware.WithRequireBearerScheme(cfg.Auth.RequireBearerScheme))

	d.Logger.Info("token verifier initialized",
		zap.Strings("algorithms", v.Algorithms()),
		zap.Bool("require_bearer_scheme", cfg.Auth.RequireBearerScheme))
	return nil
}

// Close gracefully shuts down all dependencies.
// The logger belongs to the caller and is not synced here.
func (d *Dependencies) Close() error {
	d.Logger.Info("shutting down dependencies")
	return nil
}
