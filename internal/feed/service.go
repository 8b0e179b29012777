package feed

import (
	"context"
	"encoding/json"
	"errors"

	"backend-learnhub/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound         = errors.New("post not found")
	ErrInvalidReference = errors.New("referenced post or user does not exist")
	ErrInvalidKind      = errors.New("unknown reaction kind")
)

type Service struct {
	db db.TxQuerier
}

func NewService(db db.TxQuerier) *Service {
	return &Service{db: db}
}

// CreatePost inserts the post row and all attachment rows in one transaction
// so a post is never persisted without its attachments.
func (s *Service) CreatePost(ctx context.Context, input Post) (Post, error) {
	input.ID = uuid.NewString()
	if input.Tags == nil {
		input.Tags = []string{}
	}
	tags, err := json.Marshal(input.Tags)
	if err != nil {
		return Post{}, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Post{}, err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, content, media_url, tags)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at
	`, input.ID, input.UserID, input.Content, nullIfEmpty(input.MediaURL), string(tags))
	if err := row.Scan(&input.CreatedAt, &input.UpdatedAt); err != nil {
		return Post{}, translateStoreErr(err)
	}

	for i := range input.Attachments {
		input.Attachments[i].ID = uuid.NewString()
		input.Attachments[i].PostID = input.ID
		a := input.Attachments[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO feed_post_attachments (id, post_id, url, file_name, file_type)
			VALUES ($1,$2,$3,$4,$5)
		`, a.ID, a.PostID, a.URL, a.FileName, a.FileType)
		if err != nil {
			return Post{}, translateStoreErr(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Post{}, err
	}
	return input, nil
}

// DeletePost removes a post owned by authorID. Related engagement rows are
// removed by the schema's ON DELETE CASCADE.
func (s *Service) DeletePost(ctx context.Context, postID, authorID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM posts WHERE id=$1 AND user_id=$2`, postID, authorID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) AddComment(ctx context.Context, input Comment) (Comment, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO feed_comments (id, post_id, user_id, content)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, input.ID, input.PostID, input.UserID, input.Content)
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Comment{}, translateStoreErr(err)
	}
	return input, nil
}

// Comments returns every comment on a post, oldest first.
func (s *Service) Comments(ctx context.Context, postID string) ([]Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, user_id, content, created_at
		FROM feed_comments WHERE post_id=$1
		ORDER BY created_at, id
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// SharePost records a share. Shares are append-only; the same user may share
// the same post any number of times.
func (s *Service) SharePost(ctx context.Context, input Share) (Share, error) {
	input.ID = uuid.NewString()
	row := s.db.QueryRow(ctx, `
		INSERT INTO feed_shares (id, post_id, user_id, message)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at
	`, input.ID, input.PostID, input.UserID, nullIfEmpty(input.Message))
	if err := row.Scan(&input.CreatedAt); err != nil {
		return Share{}, translateStoreErr(err)
	}
	return input, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// translateStoreErr maps foreign key violations to ErrInvalidReference so a
// mutation against a missing post or user never creates orphan rows and is
// reported as an operational error.
func translateStoreErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrInvalidReference
	}
	return err
}
