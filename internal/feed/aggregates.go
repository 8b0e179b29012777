package feed

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
)

const postColumns = `
	p.id, p.user_id, u.username, u.full_name, u.avatar_url,
	p.content, COALESCE(p.media_url,''), p.tags, p.created_at, p.updated_at`

// GetAggregate assembles the denormalized view of a single post for a viewer.
func (s *Service) GetAggregate(ctx context.Context, postID, viewerID string) (PostAggregate, error) {
	row := s.db.QueryRow(ctx, `
		SELECT`+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`, postID)

	agg, err := scanAggregate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return PostAggregate{}, ErrNotFound
	}
	if err != nil {
		return PostAggregate{}, err
	}

	aggs := []PostAggregate{agg}
	if err := s.assemble(ctx, aggs, viewerID); err != nil {
		return PostAggregate{}, err
	}
	return aggs[0], nil
}

// ListAggregates returns a newest-first page of aggregates, optionally
// restricted to a single author. Limit and offset are clamped rather than
// rejected so pagination scans always succeed.
func (s *Service) ListAggregates(ctx context.Context, viewerID string, limit, offset int, authorID string) ([]PostAggregate, error) {
	limit, offset = clampPage(limit, offset)

	var rows pgx.Rows
	var err error
	if authorID != "" {
		rows, err = s.db.Query(ctx, `
			SELECT`+postColumns+`
			FROM posts p
			JOIN users u ON u.id = p.user_id
			WHERE p.user_id = $1
			ORDER BY p.created_at DESC, p.id DESC
			LIMIT $2 OFFSET $3
		`, authorID, limit, offset)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT`+postColumns+`
			FROM posts p
			JOIN users u ON u.id = p.user_id
			ORDER BY p.created_at DESC, p.id DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, err
	}

	aggs, err := collectAggregates(rows)
	if err != nil {
		return nil, err
	}
	if err := s.assemble(ctx, aggs, viewerID); err != nil {
		return nil, err
	}
	return aggs, nil
}

// SavedAggregates is the saved-posts view: the same aggregate shape filtered
// to posts the viewer has saved.
func (s *Service) SavedAggregates(ctx context.Context, viewerID string, limit, offset int) ([]PostAggregate, error) {
	limit, offset = clampPage(limit, offset)

	rows, err := s.db.Query(ctx, `
		SELECT`+postColumns+`
		FROM posts p
		JOIN users u ON u.id = p.user_id
		JOIN feed_saved_posts sp ON sp.post_id = p.id AND sp.user_id = $1
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`, viewerID, limit, offset)
	if err != nil {
		return nil, err
	}

	aggs, err := collectAggregates(rows)
	if err != nil {
		return nil, err
	}
	if err := s.assemble(ctx, aggs, viewerID); err != nil {
		return nil, err
	}
	return aggs, nil
}

// assemble fills attachments, metrics and comment windows for a page of
// aggregates using one batched query per concern.
func (s *Service) assemble(ctx context.Context, aggs []PostAggregate, viewerID string) error {
	if len(aggs) == 0 {
		return nil
	}
	ids := make([]string, len(aggs))
	for i := range aggs {
		ids[i] = aggs[i].ID
	}

	attachments, err := s.loadAttachments(ctx, ids)
	if err != nil {
		return err
	}
	metrics, err := s.loadMetrics(ctx, ids, viewerID)
	if err != nil {
		return err
	}
	windows, err := s.loadCommentWindows(ctx, ids, commentWindow)
	if err != nil {
		return err
	}

	for i := range aggs {
		aggs[i].Attachments = attachments[aggs[i].ID]
		aggs[i].Metrics = metrics[aggs[i].ID]
		aggs[i].LatestComments = windows[aggs[i].ID]
	}
	return nil
}

func (s *Service) loadAttachments(ctx context.Context, postIDs []string) (map[string][]Attachment, error) {
	if len(postIDs) == 0 {
		return map[string][]Attachment{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, url, COALESCE(file_name,''), COALESCE(file_type,'')
		FROM feed_post_attachments WHERE post_id = ANY($1)
		ORDER BY id
	`, postIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attachments := map[string][]Attachment{}
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.PostID, &a.URL, &a.FileName, &a.FileType); err != nil {
			return nil, err
		}
		attachments[a.PostID] = append(attachments[a.PostID], a)
	}
	return attachments, rows.Err()
}

func collectAggregates(rows pgx.Rows) ([]PostAggregate, error) {
	defer rows.Close()

	var aggs []PostAggregate
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	return aggs, rows.Err()
}

func scanAggregate(row pgx.Row) (PostAggregate, error) {
	var agg PostAggregate
	var tags string
	err := row.Scan(&agg.ID, &agg.UserID, &agg.Author.Username, &agg.Author.FullName, &agg.Author.AvatarURL,
		&agg.Content, &agg.MediaURL, &tags, &agg.CreatedAt, &agg.UpdatedAt)
	if err != nil {
		return PostAggregate{}, err
	}
	agg.Author.ID = agg.UserID
	agg.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &agg.Tags); err != nil {
			return PostAggregate{}, err
		}
	}
	return agg, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
