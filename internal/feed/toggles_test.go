package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
)

func metricsRows(postID string, reactions, comments, shares int, viewerReaction string, saved bool) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "reaction_count", "comment_count", "share_count", "viewer_reaction", "is_saved"}).
		AddRow(postID, reactions, comments, shares, viewerReaction, saved)
}

func TestToggleReactionInsertsWhenNone(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT kind FROM feed_post_reactions`).
		WithArgs("post-1", "user-2").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO feed_post_reactions`).
		WithArgs("post-1", "user-2", "like").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM unnest`).
		WithArgs(pgxmock.AnyArg(), "user-2").
		WillReturnRows(metricsRows("post-1", 1, 0, 0, "like", false))

	svc := NewService(mock)
	metrics, err := svc.ToggleReaction(context.Background(), "post-1", "user-2", "like")
	if err != nil {
		t.Fatalf("toggle reaction: %v", err)
	}
	if metrics.ReactionCount != 1 || metrics.ViewerReaction != "like" {
		t.Fatalf("unexpected metrics after insert: %+v", metrics)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleReactionSameKindRemoves(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT kind FROM feed_post_reactions`).
		WithArgs("post-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"kind"}).AddRow("like"))
	mock.ExpectExec(`DELETE FROM feed_post_reactions`).
		WithArgs("post-1", "user-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM unnest`).
		WithArgs(pgxmock.AnyArg(), "user-2").
		WillReturnRows(metricsRows("post-1", 0, 0, 0, "", false))

	svc := NewService(mock)
	metrics, err := svc.ToggleReaction(context.Background(), "post-1", "user-2", "like")
	if err != nil {
		t.Fatalf("toggle reaction: %v", err)
	}
	if metrics.ReactionCount != 0 || metrics.ViewerReaction != "" {
		t.Fatalf("expected reaction removed, got %+v", metrics)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleReactionDifferentKindUpdates(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT kind FROM feed_post_reactions`).
		WithArgs("post-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"kind"}).AddRow("like"))
	mock.ExpectExec(`UPDATE feed_post_reactions`).
		WithArgs("post-1", "user-2", "love").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM unnest`).
		WithArgs(pgxmock.AnyArg(), "user-2").
		WillReturnRows(metricsRows("post-1", 1, 0, 0, "love", false))

	svc := NewService(mock)
	metrics, err := svc.ToggleReaction(context.Background(), "post-1", "user-2", "love")
	if err != nil {
		t.Fatalf("toggle reaction: %v", err)
	}
	if metrics.ReactionCount != 1 || metrics.ViewerReaction != "love" {
		t.Fatalf("expected replaced reaction with count still 1, got %+v", metrics)
	}
}

func TestToggleReactionInvalidKind(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.ToggleReaction(context.Background(), "post-1", "user-2", "meh")
	if !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestToggleReactionInvalidPost(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT kind FROM feed_post_reactions`).
		WithArgs("missing", "user-2").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO feed_post_reactions`).
		WithArgs("missing", "user-2", "like").
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	svc := NewService(mock)
	_, err = svc.ToggleReaction(context.Background(), "missing", "user-2", "like")
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestToggleSaveInsertsWhenAbsent(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT TRUE FROM feed_saved_posts`).
		WithArgs("post-1", "user-2").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec(`INSERT INTO feed_saved_posts`).
		WithArgs("post-1", "user-2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM unnest`).
		WithArgs(pgxmock.AnyArg(), "user-2").
		WillReturnRows(metricsRows("post-1", 0, 0, 0, "", true))

	svc := NewService(mock)
	metrics, err := svc.ToggleSave(context.Background(), "post-1", "user-2")
	if err != nil {
		t.Fatalf("toggle save: %v", err)
	}
	if !metrics.IsSaved {
		t.Fatalf("expected post saved")
	}
}

func TestToggleSaveRemovesWhenPresent(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT TRUE FROM feed_saved_posts`).
		WithArgs("post-1", "user-2").
		WillReturnRows(pgxmock.NewRows([]string{"bool"}).AddRow(true))
	mock.ExpectExec(`DELETE FROM feed_saved_posts`).
		WithArgs("post-1", "user-2").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`FROM unnest`).
		WithArgs(pgxmock.AnyArg(), "user-2").
		WillReturnRows(metricsRows("post-1", 0, 0, 0, "", false))

	svc := NewService(mock)
	metrics, err := svc.ToggleSave(context.Background(), "post-1", "user-2")
	if err != nil {
		t.Fatalf("toggle save: %v", err)
	}
	if metrics.IsSaved {
		t.Fatalf("expected post unsaved")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestToggleSaveBeginError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errFeed)

	svc := NewService(mock)
	if _, err := svc.ToggleSave(context.Background(), "post-1", "user-2"); err == nil {
		t.Fatalf("expected error")
	}
}
