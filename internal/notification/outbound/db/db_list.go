package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

func (s *DB) ListActiveCollaborators(ctx context.Context, innovationID string) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "ListActiveCollaborators")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + recipientColumns + recipientFrom + `
		JOIN innovation_collaborators c ON c.user_id = u.id
		WHERE c.innovation_id = $1 AND c.status = 'ACTIVE' AND c.deleted_at IS NULL
			AND ur.role = 'INNOVATOR' AND ur.deleted_at IS NULL
		ORDER BY c.created_at, ur.id`

	return s.listRecipients(ctx, query, innovationID)
}

func (s *DB) ListAssessmentUsers(ctx context.Context) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "ListAssessmentUsers")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + recipientColumns + recipientFrom + `
		WHERE ur.role = 'ASSESSMENT' AND ur.deleted_at IS NULL
		ORDER BY ur.created_at, ur.id`

	return s.listRecipients(ctx, query)
}

func (s *DB) ListUnitQualifyingAccessors(ctx context.Context, unitIDs []string) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "ListUnitQualifyingAccessors")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + recipientColumns + recipientFrom + `
		WHERE ur.role = 'QUALIFYING_ACCESSOR' AND ur.deleted_at IS NULL
			AND ur.organisation_unit_id = ANY($1)
		ORDER BY array_position($1, ur.organisation_unit_id), ur.created_at, ur.id`

	return s.listRecipients(ctx, query, unitIDs)
}

func (s *DB) ListRecipientsByRoleIDs(ctx context.Context, roleIDs []string) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "ListRecipientsByRoleIDs")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + recipientColumns + recipientFrom + `
		WHERE ur.id = ANY($1) AND ur.deleted_at IS NULL
		ORDER BY array_position($1, ur.id)`

	return s.listRecipients(ctx, query, roleIDs)
}

// ListRecipientsByUserIDs returns every role of the users, narrowed to
// roles when it is not empty.
func (s *DB) ListRecipientsByUserIDs(ctx context.Context, userIDs []string, roles []entity.Role) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "ListRecipientsByUserIDs")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + recipientColumns + recipientFrom + `
		WHERE u.id = ANY($1) AND ur.deleted_at IS NULL
			AND (cardinality($2::text[]) = 0 OR ur.role = ANY($2))
		ORDER BY array_position($1, u.id), ur.created_at, ur.id`

	return s.listRecipients(ctx, query, userIDs, rolesToStrings(roles))
}

func (s *DB) ListRecipientsByIdentityIDs(ctx context.Context, identityIDs []string, role entity.Role) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "ListRecipientsByIdentityIDs")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + recipientColumns + recipientFrom + `
		WHERE u.identity_id = ANY($1) AND ur.role = $2 AND ur.deleted_at IS NULL
		ORDER BY array_position($1, u.identity_id), ur.created_at, ur.id`

	return s.listRecipients(ctx, query, identityIDs, string(role))
}

func (s *DB) ListThreadFollowers(ctx context.Context, threadID string) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "ListThreadFollowers")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + recipientColumns + recipientFrom + `
		JOIN innovation_thread_followers f ON f.user_role_id = ur.id
		WHERE f.thread_id = $1 AND ur.deleted_at IS NULL
		ORDER BY f.created_at, ur.id`

	return s.listRecipients(ctx, query, threadID)
}

// ListThreadIntervenients returns the roles that authored the thread or
// any of its messages, oldest contribution first.
func (s *DB) ListThreadIntervenients(ctx context.Context, threadID string) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "ListThreadIntervenients")
	defer func() { s.endSpan(span, err) }()

	query := `WITH authors AS (
			SELECT author_user_role_id AS role_id, '-infinity'::timestamptz AS at
			FROM innovation_threads WHERE id = $1 AND author_user_role_id IS NOT NULL
			UNION ALL
			SELECT author_user_role_id, created_at
			FROM innovation_thread_messages WHERE thread_id = $1 AND author_user_role_id IS NOT NULL
		), firsts AS (
			SELECT role_id, min(at) AS at FROM authors GROUP BY role_id
		)
		SELECT ` + recipientColumns + recipientFrom + `
		JOIN firsts a ON a.role_id = ur.id
		ORDER BY a.at, ur.id`

	return s.listRecipients(ctx, query, threadID)
}

// ListIdleSupports returns ENGAGING supports untouched for idleAfterDays,
// each with its assigned accessors.
func (s *DB) ListIdleSupports(ctx context.Context) (_ []entity.IdleSupport, err error) {
	ctx, span := s.startSpan(ctx, "ListIdleSupports")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT s.id, s.innovation_id, i.name, COALESCE(ou.identity_id, ''), s.organisation_unit_id
		FROM innovation_supports s
		JOIN innovations i ON i.id = s.innovation_id AND i.deleted_at IS NULL
		LEFT JOIN users ou ON ou.id = i.owner_id
		WHERE s.status = 'ENGAGING' AND s.updated_at < now() - ($1 * interval '1 day')
		ORDER BY s.updated_at, s.id`

	rows, err := s.conn.Query(ctx, query, s.idleAfterDays)
	if err != nil {
		return nil, s.mapError(err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.IdleSupport, error) {
		var v entity.IdleSupport
		err := row.Scan(&v.SupportID, &v.InnovationID, &v.InnovationName, &v.OwnerIdentityID, &v.OrganisationUnitID)
		return v, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}

	accessorQuery := `SELECT ` + recipientColumns + recipientFrom + `
		JOIN innovation_support_accessors sa ON sa.user_role_id = ur.id
		WHERE sa.support_id = $1 AND ur.deleted_at IS NULL
		ORDER BY ur.id`

	for i := range list {
		accessors, err := s.listRecipients(ctx, accessorQuery, list[i].SupportID)
		if err != nil {
			return nil, err
		}
		list[i].Accessors = accessors
	}
	return list, nil
}

func (s *DB) ListPreferencesByRoleIDs(ctx context.Context, roleIDs []string) (_ []entity.Preference, err error) {
	ctx, span := s.startSpan(ctx, "ListPreferencesByRoleIDs")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT user_role_id, notification_type, preference
		FROM notification_preferences WHERE user_role_id = ANY($1)
		ORDER BY user_role_id, notification_type`

	return s.listPreferences(ctx, query, roleIDs)
}

func (s *DB) ListPreferences(ctx context.Context, roleID string) (_ []entity.Preference, err error) {
	ctx, span := s.startSpan(ctx, "ListPreferences")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT user_role_id, notification_type, preference
		FROM notification_preferences WHERE user_role_id = $1
		ORDER BY notification_type`

	return s.listPreferences(ctx, query, roleID)
}

func (s *DB) listPreferences(ctx context.Context, query string, args ...any) ([]entity.Preference, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, s.mapError(err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Preference, error) {
		var (
			p                 entity.Preference
			category, setting string
		)
		if err := row.Scan(&p.RoleID, &category, &setting); err != nil {
			return p, err
		}
		p.Category = entity.Category(category)
		p.Setting = entity.Setting(setting)
		return p, nil
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return list, nil
}

// ListDigestRecipients returns the active roles that chose a DAILY digest
// for category.
func (s *DB) ListDigestRecipients(ctx context.Context, category entity.Category) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "ListDigestRecipients")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + recipientColumns + recipientFrom + `
		JOIN notification_preferences p ON p.user_role_id = ur.id
		WHERE p.notification_type = $1 AND p.preference = 'DAILY'
			AND ur.deleted_at IS NULL AND u.deleted_at IS NULL
		ORDER BY ur.id`

	return s.listRecipients(ctx, query, string(category))
}

func (s *DB) ListInbox(ctx context.Context, f entity.InboxFilter) (_ []entity.InboxItem, err error) {
	ctx, span := s.startSpan(ctx, "ListInbox")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT n.id, n.innovation_id, n.context_type, n.context_detail, n.context_id, n.params, nu.read_at, n.created_at
		FROM notification_users nu JOIN notifications n ON n.id = nu.notification_id
		WHERE nu.user_role_id = $1 AND nu.deleted_at IS NULL
			AND ($2::text = 'all'
				OR ($2::text = 'unread' AND nu.read_at IS NULL)
				OR ($2::text = 'read' AND nu.read_at IS NOT NULL))
		ORDER BY n.created_at DESC, n.id DESC
		LIMIT $3 OFFSET $4`

	rows, err := s.conn.Query(ctx, query, f.RoleID, string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, s.mapError(err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.InboxItem, error) {
		var (
			v                     entity.InboxItem
			contextType, detailID string
		)
		err := row.Scan(&v.ID, &v.InnovationID, &contextType, &detailID, &v.ContextID, &v.Params, &v.ReadAt, &v.CreatedAt)
		v.ContextType = entity.ContextType(contextType)
		v.ContextDetail = entity.TemplateID(detailID)
		return v, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return list, nil
}

func (s *DB) CountUnreadInbox(ctx context.Context, roleID string) (_ []entity.InboxCounter, err error) {
	ctx, span := s.startSpan(ctx, "CountUnreadInbox")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT n.context_type, count(*)
		FROM notification_users nu JOIN notifications n ON n.id = nu.notification_id
		WHERE nu.user_role_id = $1 AND nu.deleted_at IS NULL AND nu.read_at IS NULL
		GROUP BY n.context_type
		ORDER BY n.context_type`

	rows, err := s.conn.Query(ctx, query, roleID)
	if err != nil {
		return nil, s.mapError(err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.InboxCounter, error) {
		var (
			v           entity.InboxCounter
			contextType string
		)
		err := row.Scan(&contextType, &v.Unread)
		v.ContextType = entity.ContextType(contextType)
		return v, err
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return list, nil
}
