package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

// SaveInAppNotification stores n and its recipients atomically. When
// n.DispatchKey is set and a notification with that key already exists,
// nothing is written and the stored id is returned with created false.
func (s *DB) SaveInAppNotification(ctx context.Context, n entity.Notification, users []entity.NotificationUser) (id int64, created bool, err error) {
	ctx, span := s.startSpan(ctx, "SaveInAppNotification")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return 0, false, err
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, s.rollback(ctx, tx))
		}
	}()

	var key *string
	if n.DispatchKey != "" {
		key = &n.DispatchKey
	}

	err = tx.QueryRow(ctx, `INSERT INTO notifications
		(id, context_type, context_detail, context_id, innovation_id, params, created_by, created_at, dispatch_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (dispatch_key) DO NOTHING
		RETURNING id`,
		n.ID, string(n.ContextType), string(n.ContextDetail), n.ContextID, n.InnovationID, n.Params, n.CreatedBy, n.CreatedAt, key).
		Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `SELECT id FROM notifications WHERE dispatch_key = $1`, n.DispatchKey).Scan(&id)
		if err != nil {
			return 0, false, s.mapError(err)
		}
		return id, false, tx.Commit(ctx)
	}
	if err != nil {
		return 0, false, s.mapError(err)
	}

	rows := make([][]any, len(users))
	for i, u := range users {
		rows[i] = []any{u.ID, u.NotificationID, u.UserRoleID, u.CreatedBy}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"notification_users"},
		[]string{"id", "notification_id", "user_role_id", "created_by"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, false, s.mapError(err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// UpsertPreferences replaces the given categories of roleID in one
// transaction. Categories not listed are left untouched.
func (s *DB) UpsertPreferences(ctx context.Context, roleID string, prefs []entity.Preference) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertPreferences")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, s.rollback(ctx, tx))
		}
	}()

	batch := &pgx.Batch{}
	for _, p := range prefs {
		batch.Queue(`INSERT INTO notification_preferences (user_role_id, notification_type, preference, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (user_role_id, notification_type)
			DO UPDATE SET preference = EXCLUDED.preference, updated_at = EXCLUDED.updated_at`,
			roleID, string(p.Category), string(p.Setting))
	}

	if err = tx.SendBatch(ctx, batch).Close(); err != nil {
		return s.mapError(err)
	}

	return tx.Commit(ctx)
}

func (s *DB) rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
