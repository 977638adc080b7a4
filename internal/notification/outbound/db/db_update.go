package db

import (
	"context"
	"time"
)

// MarkInboxRead keeps the first read time. found is false when the
// notification is not in the role's inbox.
func (s *DB) MarkInboxRead(ctx context.Context, roleID string, notificationID int64, at time.Time) (found bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkInboxRead")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE notification_users SET read_at = COALESCE(read_at, $3)
		WHERE user_role_id = $1 AND notification_id = $2 AND deleted_at IS NULL`,
		roleID, notificationID, at)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *DB) MarkInboxReadAll(ctx context.Context, roleID string, at time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "MarkInboxReadAll")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE notification_users SET read_at = $2
		WHERE user_role_id = $1 AND read_at IS NULL AND deleted_at IS NULL`,
		roleID, at)
	if err != nil {
		return 0, s.mapError(err)
	}
	return tag.RowsAffected(), nil
}
