package feed

import "time"

const (
	ReactionLike  = "like"
	ReactionLove  = "love"
	ReactionLaugh = "laugh"
	ReactionSad   = "sad"
	ReactionAngry = "angry"
)

// commentWindow is the number of most-recent comments embedded in an aggregate.
const commentWindow = 3

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

type Post struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Content     string       `json:"content"`
	MediaURL    string       `json:"media_url,omitempty"`
	Tags        []string     `json:"tags"`
	Attachments []Attachment `json:"attachments"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

type Attachment struct {
	ID       string `json:"id"`
	PostID   string `json:"post_id"`
	URL      string `json:"url"`
	FileName string `json:"file_name,omitempty"`
	FileType string `json:"file_type,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Share struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthorSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// PostMetrics is always computed from the live rows, never cached.
// ViewerReaction is empty when the viewer has not reacted.
type PostMetrics struct {
	ReactionCount  int    `json:"reaction_count"`
	CommentCount   int    `json:"comment_count"`
	ShareCount     int    `json:"share_count"`
	ViewerReaction string `json:"viewer_reaction,omitempty"`
	IsSaved        bool   `json:"is_saved"`
}

type PostAggregate struct {
	Post
	Author         AuthorSummary `json:"author"`
	Metrics        PostMetrics   `json:"metrics"`
	LatestComments []Comment     `json:"latest_comments"`
}

func validReactionKind(kind string) bool {
	switch kind {
	case ReactionLike, ReactionLove, ReactionLaugh, ReactionSad, ReactionAngry:
		return true
	}
	return false
}
