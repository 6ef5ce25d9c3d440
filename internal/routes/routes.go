package routes

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xyz-asif/nexcrm/internal/config"
	"github.com/xyz-asif/nexcrm/internal/features/clients"
	"github.com/xyz-asif/nexcrm/internal/features/comments"
	"github.com/xyz-asif/nexcrm/internal/features/compose"
	"github.com/xyz-asif/nexcrm/internal/features/notifications"
	"github.com/xyz-asif/nexcrm/internal/features/users"
	"github.com/xyz-asif/nexcrm/internal/middleware"
	"github.com/xyz-asif/nexcrm/internal/pkg/logger"
	"github.com/xyz-asif/nexcrm/internal/pkg/ratelimit"
	"go.mongodb.org/mongo-driver/mongo"
)

// SetupRoutes wires every feature under /api/v1. Background sweepers stop
// when ctx is done.
func SetupRoutes(ctx context.Context, router *gin.Engine, db *mongo.Database, cfg *config.Config) error {
	api := router.Group("/api/v1")
	authMiddleware := middleware.Auth(cfg.JWTSecret)
	log := *logger.Z()

	// Directories
	usersService := users.NewService(users.NewRepository(db))
	clientsService := clients.NewService(clients.NewRepository(db))

	notificationsService := notifications.NewService(notifications.NewRepository(db))
	commentsService := comments.NewService(
		comments.NewRepository(db),
		usersService,
		clientsService,
		notificationsService,
		log,
	)

	composeService, err := compose.NewService(compose.Config{
		Capacity:     cfg.Compose.Capacity,
		TTL:          cfg.Compose.TTL,
		PopupLimit:   cfg.Compose.PopupLimit,
		ClientPrefix: cfg.Compose.ClientPrefix,
		Lenient:      cfg.Compose.Lenient,
	}, usersService, clientsService, commentsService, log)
	if err != nil {
		return fmt.Errorf("compose service: %w", err)
	}
	composeService.StartSweeper(ctx, time.Minute)

	limiter := ratelimit.NewPerSecond(cfg.Rate.PerSecond, cfg.Rate.Burst)
	limiter.StartCleanup(ctx, 5*time.Minute)

	users.RegisterRoutes(api, users.NewHandler(usersService), authMiddleware)
	clients.RegisterRoutes(api, clients.NewHandler(clientsService), authMiddleware)
	comments.RegisterRoutes(api, comments.NewHandler(commentsService), authMiddleware)
	notifications.RegisterRoutes(api, notifications.NewHandler(notificationsService), authMiddleware)
	compose.RegisterRoutes(api, compose.NewHandler(composeService, log), authMiddleware, limiter)

	return nil
}
