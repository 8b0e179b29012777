package feed

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/posts", authMiddleware, func(c *fiber.Ctx) error {
		var req Post
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		req.UserID = viewerID(c)
		if req.Content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "content required")
		}
		post, err := svc.CreatePost(c.Context(), req)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(post)
	})

	r.Get("/posts", authMiddleware, func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		aggs, err := svc.ListAggregates(c.Context(), viewerID(c), limit, offset, c.Query("author_id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(aggs)
	})

	r.Get("/saved", authMiddleware, func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit"))
		offset, _ := strconv.Atoi(c.Query("offset"))
		aggs, err := svc.SavedAggregates(c.Context(), viewerID(c), limit, offset)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(aggs)
	})

	r.Get("/posts/:id", authMiddleware, func(c *fiber.Ctx) error {
		agg, err := svc.GetAggregate(c.Context(), c.Params("id"), viewerID(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(agg)
	})

	r.Delete("/posts/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := svc.DeletePost(c.Context(), c.Params("id"), viewerID(c)); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/posts/:id/comments", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Content string `json:"content"`
		}
		if err := c.BodyParser(&body); err != nil || body.Content == "" {
			return fiber.NewError(fiber.StatusBadRequest, "content required")
		}
		comment, err := svc.AddComment(c.Context(), Comment{
			PostID:  c.Params("id"),
			UserID:  viewerID(c),
			Content: body.Content,
		})
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(comment)
	})

	r.Get("/posts/:id/comments", authMiddleware, func(c *fiber.Ctx) error {
		comments, err := svc.Comments(c.Context(), c.Params("id"))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(comments)
	})

	r.Post("/posts/:id/reactions", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Kind string `json:"kind"`
		}
		if err := c.BodyParser(&body); err != nil || body.Kind == "" {
			return fiber.NewError(fiber.StatusBadRequest, "kind required")
		}
		metrics, err := svc.ToggleReaction(c.Context(), c.Params("id"), viewerID(c), body.Kind)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(metrics)
	})

	r.Post("/posts/:id/save", authMiddleware, func(c *fiber.Ctx) error {
		metrics, err := svc.ToggleSave(c.Context(), c.Params("id"), viewerID(c))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(metrics)
	})

	r.Post("/posts/:id/shares", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			Message string `json:"message"`
		}
		_ = c.BodyParser(&body)
		share, err := svc.SharePost(c.Context(), Share{
			PostID:  c.Params("id"),
			UserID:  viewerID(c),
			Message: body.Message,
		})
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(share)
	})
}

func viewerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func httpError(err error) *fiber.Error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidReference):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrInvalidKind):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
