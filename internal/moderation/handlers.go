package moderation

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware, adminMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			PostID string `json:"post_id"`
			Reason string `json:"reason"`
		}
		if err := c.BodyParser(&body); err != nil || body.PostID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "post_id required")
		}
		reporterID, _ := c.Locals("user_id").(string)
		report, err := svc.CreateReport(c.Context(), body.PostID, reporterID, body.Reason)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(report)
	})

	r.Get("/", authMiddleware, adminMiddleware, func(c *fiber.Ctx) error {
		reports, err := svc.ListReports(c.Context())
		if err != nil {
			return httpError(err)
		}
		return c.JSON(reports)
	})

	r.Patch("/:id", authMiddleware, adminMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Status string `json:"status"`
		}
		if err := c.BodyParser(&body); err != nil || body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status required")
		}
		report, err := svc.UpdateStatus(c.Context(), c.Params("id"), body.Status)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(report)
	})
}

func httpError(err error) *fiber.Error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidReference):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalidStatus):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
