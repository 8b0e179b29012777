package moderation

import (
	"context"
	"errors"

	"backend-learnhub/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("report not found")
	ErrInvalidReference = errors.New("referenced post or user does not exist")
	ErrInvalidStatus    = errors.New("unknown report status")
)

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// CreateReport files a report against a post. Reports are never deduplicated;
// repeated reports by the same or different users all stand on their own.
func (s *Service) CreateReport(ctx context.Context, postID, reporterID, reason string) (Report, error) {
	report := Report{
		ID:         uuid.NewString(),
		PostID:     postID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     StatusPending,
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO feed_reports (id, post_id, user_id, reason, status)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at
	`, report.ID, report.PostID, report.ReporterID, nullIfEmpty(report.Reason), report.Status)
	if err := row.Scan(&report.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Report{}, ErrInvalidReference
		}
		return Report{}, err
	}
	return report, nil
}

// ListReports returns every report newest first, joined with the reporter and
// a summary of the reported post.
func (s *Service) ListReports(ctx context.Context) ([]ReportDetail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.post_id, r.user_id, COALESCE(r.reason,''), r.status, r.created_at, r.reviewed_at,
		       ru.username, ru.avatar_url,
		       LEFT(p.content, 160), COALESCE(p.media_url,''),
		       p.user_id, au.username, au.avatar_url
		FROM feed_reports r
		JOIN users ru ON ru.id = r.user_id
		JOIN posts p ON p.id = r.post_id
		JOIN users au ON au.id = p.user_id
		ORDER BY r.created_at DESC, r.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []ReportDetail
	for rows.Next() {
		var d ReportDetail
		err := rows.Scan(&d.ID, &d.PostID, &d.ReporterID, &d.Reason, &d.Status, &d.CreatedAt, &d.ReviewedAt,
			&d.Reporter.Username, &d.Reporter.AvatarURL,
			&d.Post.Content, &d.Post.MediaURL,
			&d.Post.Author.ID, &d.Post.Author.Username, &d.Post.Author.AvatarURL)
		if err != nil {
			return nil, err
		}
		d.Reporter.ID = d.ReporterID
		d.Post.ID = d.PostID
		reports = append(reports, d)
	}
	return reports, rows.Err()
}

// UpdateStatus advances a report. Moving into reviewed stamps reviewed_at once;
// the timestamp is never cleared afterwards, even if the report is re-opened,
// so it stays as evidence that the report has ever been reviewed.
func (s *Service) UpdateStatus(ctx context.Context, reportID, status string) (Report, error) {
	if !validStatus(status) {
		return Report{}, ErrInvalidStatus
	}

	report := Report{ID: reportID}
	row := s.db.QueryRow(ctx, `
		UPDATE feed_reports
		SET status = $2,
		    reviewed_at = CASE WHEN $2 = 'reviewed' AND reviewed_at IS NULL THEN now() ELSE reviewed_at END
		WHERE id = $1
		RETURNING post_id, user_id, COALESCE(reason,''), status, created_at, reviewed_at
	`, reportID, status)
	err := row.Scan(&report.PostID, &report.ReporterID, &report.Reason, &report.Status, &report.CreatedAt, &report.ReviewedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
