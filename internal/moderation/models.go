package moderation

import "time"

const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
)

type Report struct {
	ID         string     `json:"id"`
	PostID     string     `json:"post_id"`
	ReporterID string     `json:"reporter_id"`
	Reason     string     `json:"reason,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
}

type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// ReportedPost is the snippet moderators see next to each report so review
// never needs a second round trip.
type ReportedPost struct {
	ID       string      `json:"id"`
	Content  string      `json:"content"`
	MediaURL string      `json:"media_url,omitempty"`
	Author   UserSummary `json:"author"`
}

type ReportDetail struct {
	Report
	Reporter UserSummary  `json:"reporter"`
	Post     ReportedPost `json:"post"`
}

func validStatus(status string) bool {
	return status == StatusPending || status == StatusReviewed
}
