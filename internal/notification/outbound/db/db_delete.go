package db

import (
	"context"
	"time"
)

func (s *DB) SoftDeleteInbox(ctx context.Context, roleID string, notificationID int64, at time.Time) (found bool, err error) {
	ctx, span := s.startSpan(ctx, "SoftDeleteInbox")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `UPDATE notification_users SET deleted_at = $3
		WHERE user_role_id = $1 AND notification_id = $2 AND deleted_at IS NULL`,
		roleID, notificationID, at)
	if err != nil {
		return false, s.mapError(err)
	}
	return tag.RowsAffected() > 0, nil
}
