package sync

import (
	"github.com/gofiber/fiber/v2"
)

type SyncController struct {
	Service SyncService
}

func NewSyncController(service SyncService) *SyncController {
	return &SyncController{
		Service: service,
	}
}

// PushAll godoc
func (ctrl *SyncController) PushAll(c *fiber.Ctx) error {
	return c.JSON(ctrl.Service.PushAll(c.Context()))
}

// PullAll godoc
func (ctrl *SyncController) PullAll(c *fiber.Ctx) error {
	return c.JSON(ctrl.Service.PullAll(c.Context()))
}

// Bidirectional godoc
func (ctrl *SyncController) Bidirectional(c *fiber.Ctx) error {
	return c.JSON(ctrl.Service.Bidirectional(c.Context()))
}

// PushStatuses godoc
func (ctrl *SyncController) PushStatuses(c *fiber.Ctx) error {
	result, err := ctrl.Service.PushStatuses(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}
