package fx

import (
	"majestic-dominion/internal/config"
	"majestic-dominion/internal/discord"
	"majestic-dominion/internal/logger"
	"majestic-dominion/internal/metrics"
	"majestic-dominion/internal/notify"
	"majestic-dominion/internal/repository"
	"majestic-dominion/internal/server"
	"majestic-dominion/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	// store
	repository.Module,
	metrics.Module,
	// outbound webhooks, provided as service.MatchNotifier
	notify.Module,
	// svc
	service.Module,
	// edges
	server.Module,
	discord.Module,
)
