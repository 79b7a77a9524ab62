package synclog

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type SyncLogController struct {
	Service SyncLogService
}

func NewSyncLogController(service SyncLogService) *SyncLogController {
	return &SyncLogController{
		Service: service,
	}
}

// ListSyncLogs godoc
func (ctrl *SyncLogController) ListSyncLogs(c *fiber.Ctx) error {
	logs, err := ctrl.Service.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"data": logs,
	})
}

// ExportSyncLogs godoc
func (ctrl *SyncLogController) ExportSyncLogs(c *fiber.Ctx) error {
	data, filename, err := ctrl.Service.ExportExcel(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return c.Send(data)
}
