package synclog

import (
	"github.com/sarobidyBryan/signalement/internal/common/api"
	"github.com/sarobidyBryan/signalement/internal/config"
	"github.com/sarobidyBryan/signalement/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type SyncLogApi struct {
	controller *SyncLogController
	config     *config.Config
}

func NewSyncLogApi(controller *SyncLogController, config *config.Config) api.Route {
	return &SyncLogApi{
		controller: controller,
		config:     config,
	}
}

// Setup registers the sync audit routes
func (h *SyncLogApi) Setup(app *fiber.App) {
	group := app.Group("/api/sync/logs", middleware.AuthMiddleware(h.config.SkipAuth))

	group.Get("/", h.controller.ListSyncLogs)
	group.Get("/export", h.controller.ExportSyncLogs)
}
