package feed

import "context"

// Metrics projects the engagement counters and viewer flags for one post.
// Counts are aggregated from the live rows on every call.
func (s *Service) Metrics(ctx context.Context, postID, viewerID string) (PostMetrics, error) {
	metrics, err := s.loadMetrics(ctx, []string{postID}, viewerID)
	if err != nil {
		return PostMetrics{}, err
	}
	return metrics[postID], nil
}

// loadMetrics computes the same projection for a whole page of posts with a
// single query, one result row per requested id.
func (s *Service) loadMetrics(ctx context.Context, postIDs []string, viewerID string) (map[string]PostMetrics, error) {
	if len(postIDs) == 0 {
		return map[string]PostMetrics{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT p.id,
		       (SELECT COUNT(*) FROM feed_post_reactions r WHERE r.post_id = p.id),
		       (SELECT COUNT(*) FROM feed_comments c WHERE c.post_id = p.id),
		       (SELECT COUNT(*) FROM feed_shares sh WHERE sh.post_id = p.id),
		       COALESCE((SELECT r.kind FROM feed_post_reactions r WHERE r.post_id = p.id AND r.user_id = $2), ''),
		       EXISTS (SELECT 1 FROM feed_saved_posts sp WHERE sp.post_id = p.id AND sp.user_id = $2)
		FROM unnest($1::text[]) AS p(id)
	`, postIDs, viewerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metrics := map[string]PostMetrics{}
	for rows.Next() {
		var id string
		var m PostMetrics
		if err := rows.Scan(&id, &m.ReactionCount, &m.CommentCount, &m.ShareCount, &m.ViewerReaction, &m.IsSaved); err != nil {
			return nil, err
		}
		metrics[id] = m
	}
	return metrics, rows.Err()
}
