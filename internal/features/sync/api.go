package sync

import (
	"github.com/sarobidyBryan/signalement/internal/common/api"
	"github.com/sarobidyBryan/signalement/internal/config"
	"github.com/sarobidyBryan/signalement/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncApi struct {
	controller *SyncController
	config     *config.Config
}

func NewSyncApi(controller *SyncController, config *config.Config) api.Route {
	return &SyncApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers the sync trigger routes
func (h *SyncApi) Setup(app *fiber.App) {
	group := app.Group("/api/sync", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Post("/push", h.controller.PushAll)
	group.Post("/pull", h.controller.PullAll)
	group.Post("/bidirectional", h.controller.Bidirectional)
	group.Post("/push/statuses", h.controller.PushStatuses)
}
