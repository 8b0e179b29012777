package storage

import (
	"context"
	"time"

	"backend-learnhub/internal/db"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// RegisterUpload records an upload object and hands back the URL that feed
// attachments reference. The actual blob transfer happens out-of-band.
func (s *Service) RegisterUpload(ctx context.Context, userID, url, fileType string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO upload_objects (id, user_id, url, file_type)
		VALUES ($1,$2,$3,$4)
	`, id, userID, url, fileType)
	if err != nil {
		return "", err
	}
	return id, nil
}

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/uploads", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			FileName string `json:"file_name"`
			FileType string `json:"file_type"`
		}
		_ = c.BodyParser(&body)
		if body.FileName == "" {
			body.FileName = "upload"
		}
		userID, _ := c.Locals("user_id").(string)
		url := "https://storage.learnhub.example/" + body.FileName
		id, err := svc.RegisterUpload(c.Context(), userID, url, body.FileType)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"id":         id,
			"url":        url,
			"expires_at": time.Now().Add(15 * time.Minute),
		})
	})
}
