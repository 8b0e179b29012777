package feed

import "context"

// loadCommentWindows fetches the most recent `window` comments for every post
// in the batch with one query. Within each window comments come back oldest
// first, so callers get a recency-biased preview in reading order.
func (s *Service) loadCommentWindows(ctx context.Context, postIDs []string, window int) (map[string][]Comment, error) {
	if len(postIDs) == 0 || window <= 0 {
		return map[string][]Comment{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, post_id, user_id, content, created_at FROM (
			SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
			       ROW_NUMBER() OVER (PARTITION BY c.post_id ORDER BY c.created_at DESC, c.id DESC) AS rn
			FROM feed_comments c
			WHERE c.post_id = ANY($1)
		) latest
		WHERE rn <= $2
		ORDER BY post_id, created_at, id
	`, postIDs, window)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := map[string][]Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		windows[c.PostID] = append(windows[c.PostID], c)
	}
	return windows, rows.Err()
}
