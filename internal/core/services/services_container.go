package services

import (
	portsrepo "github.com/planloop/trip_planner_app/internal/core/ports/repositories"
	portssvc "github.com/planloop/trip_planner_app/internal/core/ports/services"
	"github.com/planloop/trip_planner_app/internal/parser"
	"github.com/planloop/trip_planner_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The trip service sits directly on the storage primitive; every
	// journal line goes through the one command parser.
	container.Trip = NewTripService(repos.Store, parser.Parse)

	container.User = NewUserService(repos.UserRepo)

	// Token service needs the user service for refresh token lookups.
	container.Token = NewTokenService(cfg, container.User)

	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	container.Chat = NewChatService(cfg.OpenAIAPIKey, cfg.OpenAIModel, container.Trip, repos.ConversationRepo)

	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, cfg.RatesURL, cfg.RatesBaseCurrency, nil)

	return container
}

// Compile-time interface checks.
var (
	_ portssvc.UserSvcFacade         = (*userService)(nil)
	_ portssvc.TokenSvcFacade        = (*tokenService)(nil)
	_ portssvc.GoogleOAuthSvcFacade  = (*googleOAuthService)(nil)
	_ portssvc.ChatSvcFacade         = (*chatService)(nil)
	_ portssvc.ExchangeRateSvcFacade = (*exchangeRateService)(nil)
)
