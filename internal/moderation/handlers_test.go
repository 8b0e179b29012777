package moderation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func passMiddleware(c *fiber.Ctx) error { return c.Next() }

func userMiddleware(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func TestReportHandlersCreate(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO feed_reports`).
		WithArgs(pgxmock.AnyArg(), "post-1", "user-3", pgxmock.AnyArg(), StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/reports"), NewService(mock), userMiddleware("user-3"), passMiddleware)

	body, _ := json.Marshal(map[string]string{"post_id": "post-1", "reason": "spam"})
	req := httptest.NewRequest(http.MethodPost, "/reports/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status: %v", err)
	}
}

func TestReportHandlersCreateMissingPostID(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/reports"), NewService(nil), userMiddleware("user-3"), passMiddleware)

	req := httptest.NewRequest(http.MethodPost, "/reports/", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestReportHandlersListAndUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM feed_reports r`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "post_id", "user_id", "reason", "status", "created_at", "reviewed_at",
			"reporter_username", "reporter_avatar",
			"content", "media_url", "author_id", "author_username", "author_avatar",
		}).AddRow("rep-1", "post-1", "user-3", "spam", StatusPending, now, nil,
			"carol", "", "snippet", "", "user-1", "alice", ""))

	mock.ExpectQuery(`UPDATE feed_reports`).
		WithArgs("rep-1", StatusReviewed).
		WillReturnRows(pgxmock.NewRows([]string{"post_id", "user_id", "reason", "status", "created_at", "reviewed_at"}).
			AddRow("post-1", "user-3", "spam", StatusReviewed, now, &now))

	app := fiber.New()
	RegisterRoutes(app.Group("/reports"), NewService(mock), userMiddleware("admin-1"), passMiddleware)

	req := httptest.NewRequest(http.MethodGet, "/reports/", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list status: %v", err)
	}

	body, _ := json.Marshal(map[string]string{"status": "reviewed"})
	req = httptest.NewRequest(http.MethodPatch, "/reports/rep-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: %v", err)
	}

	var report Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Status != StatusReviewed || report.ReviewedAt == nil {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestReportHandlersUpdateInvalidStatus(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/reports"), NewService(nil), userMiddleware("admin-1"), passMiddleware)

	body, _ := json.Marshal(map[string]string{"status": "escalated"})
	req := httptest.NewRequest(http.MethodPatch, "/reports/rep-1", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request for unknown status")
	}
}
