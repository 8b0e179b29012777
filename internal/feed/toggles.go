package feed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

// ToggleReaction applies the viewer's reaction to a post: no reaction inserts
// one, the same kind removes it, a different kind replaces it. The row for
// the (post, user) pair is locked for the duration of the transaction so
// concurrent toggles cannot double-insert; the composite primary key on
// feed_post_reactions is the backstop. Returns metrics computed after commit.
func (s *Service) ToggleReaction(ctx context.Context, postID, userID, kind string) (PostMetrics, error) {
	if !validReactionKind(kind) {
		return PostMetrics{}, ErrInvalidKind
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return PostMetrics{}, err
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `
		SELECT kind FROM feed_post_reactions
		WHERE post_id=$1 AND user_id=$2
		FOR UPDATE
	`, postID, userID).Scan(&current)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
			INSERT INTO feed_post_reactions (post_id, user_id, kind)
			VALUES ($1,$2,$3)
		`, postID, userID, kind)
		if err != nil {
			return PostMetrics{}, translateStoreErr(err)
		}
	case err != nil:
		return PostMetrics{}, err
	case current == kind:
		// same kind twice is a toggle-off
		_, err = tx.Exec(ctx, `
			DELETE FROM feed_post_reactions WHERE post_id=$1 AND user_id=$2
		`, postID, userID)
		if err != nil {
			return PostMetrics{}, err
		}
	default:
		_, err = tx.Exec(ctx, `
			UPDATE feed_post_reactions SET kind=$3 WHERE post_id=$1 AND user_id=$2
		`, postID, userID, kind)
		if err != nil {
			return PostMetrics{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return PostMetrics{}, err
	}
	return s.Metrics(ctx, postID, userID)
}

// ToggleSave flips the saved flag for the (post, user) pair under the same
// transactional shape as ToggleReaction.
func (s *Service) ToggleSave(ctx context.Context, postID, userID string) (PostMetrics, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return PostMetrics{}, err
	}
	defer tx.Rollback(ctx)

	var saved bool
	err = tx.QueryRow(ctx, `
		SELECT TRUE FROM feed_saved_posts
		WHERE post_id=$1 AND user_id=$2
		FOR UPDATE
	`, postID, userID).Scan(&saved)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		_, err = tx.Exec(ctx, `
			INSERT INTO feed_saved_posts (post_id, user_id)
			VALUES ($1,$2)
		`, postID, userID)
		if err != nil {
			return PostMetrics{}, translateStoreErr(err)
		}
	case err != nil:
		return PostMetrics{}, err
	default:
		_, err = tx.Exec(ctx, `
			DELETE FROM feed_saved_posts WHERE post_id=$1 AND user_id=$2
		`, postID, userID)
		if err != nil {
			return PostMetrics{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return PostMetrics{}, err
	}
	return s.Metrics(ctx, postID, userID)
}
