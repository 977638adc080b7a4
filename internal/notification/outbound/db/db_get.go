package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
)

func (s *DB) GetInnovation(ctx context.Context, id string, withDeleted bool) (_ *entity.Innovation, err error) {
	ctx, span := s.startSpan(ctx, "GetInnovation")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT i.id, i.name, COALESCE(i.owner_id, ''), COALESCE(u.identity_id, ''), i.deleted_at
		FROM innovations i LEFT JOIN users u ON u.id = i.owner_id
		WHERE i.id = $1 AND ($2 OR i.deleted_at IS NULL)`

	var (
		v         entity.Innovation
		deletedAt *time.Time
	)
	err = s.conn.QueryRow(ctx, query, id, withDeleted).
		Scan(&v.ID, &v.Name, &v.OwnerUserID, &v.OwnerIdentityID, &deletedAt)
	if err != nil {
		return nil, s.mapError(err)
	}
	v.DeletedAt = deletedAt
	return &v, nil
}

// GetInnovationOwner returns the owner's INNOVATOR role. A soft deleted
// owner is returned inactive.
func (s *DB) GetInnovationOwner(ctx context.Context, innovationID string) (_ *entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "GetInnovationOwner")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + recipientColumns + recipientFrom + `
		JOIN innovations i ON i.owner_id = u.id
		WHERE i.id = $1 AND ur.role = 'INNOVATOR'
		ORDER BY ur.created_at LIMIT 1`

	list, err := s.listRecipients(ctx, query, innovationID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, goerror.ErrNotFound
	}
	return &list[0], nil
}

func (s *DB) GetThread(ctx context.Context, id string) (_ *entity.Thread, err error) {
	ctx, span := s.startSpan(ctx, "GetThread")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT t.id, t.innovation_id, t.subject, t.author_id,
			COALESCE(t.author_user_role_id, ''), COALESCE(ur.role, '')
		FROM innovation_threads t LEFT JOIN user_roles ur ON ur.id = t.author_user_role_id
		WHERE t.id = $1`

	var (
		v    entity.Thread
		role string
	)
	err = s.conn.QueryRow(ctx, query, id).
		Scan(&v.ID, &v.InnovationID, &v.Subject, &v.AuthorUserID, &v.AuthorRoleID, &role)
	if err != nil {
		return nil, s.mapError(err)
	}
	v.AuthorRole = entity.Role(role)
	return &v, nil
}

func (s *DB) GetCollaborator(ctx context.Context, id string) (_ *entity.Collaborator, err error) {
	ctx, span := s.startSpan(ctx, "GetCollaborator")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT id, innovation_id, email, status, COALESCE(user_id, '')
		FROM innovation_collaborators WHERE id = $1`

	var (
		v      entity.Collaborator
		status string
	)
	err = s.conn.QueryRow(ctx, query, id).Scan(&v.ID, &v.InnovationID, &v.Email, &status, &v.UserID)
	if err != nil {
		return nil, s.mapError(err)
	}
	v.Status = entity.CollaboratorStatus(status)
	return &v, nil
}

func (s *DB) GetTransfer(ctx context.Context, id string) (_ *entity.Transfer, err error) {
	ctx, span := s.startSpan(ctx, "GetTransfer")
	defer func() { s.endSpan(span, err) }()

	var v entity.Transfer
	err = s.conn.QueryRow(ctx, `SELECT id, innovation_id, email FROM innovation_transfers WHERE id = $1`, id).
		Scan(&v.ID, &v.InnovationID, &v.Email)
	if err != nil {
		return nil, s.mapError(err)
	}
	return &v, nil
}

func (s *DB) GetTask(ctx context.Context, id string) (_ *entity.Task, err error) {
	ctx, span := s.startSpan(ctx, "GetTask")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT id, display_id, innovation_id, status, created_by, created_by_user_role_id
		FROM innovation_tasks WHERE id = $1`

	var (
		v      entity.Task
		status string
	)
	err = s.conn.QueryRow(ctx, query, id).
		Scan(&v.ID, &v.DisplayID, &v.InnovationID, &status, &v.CreatedByUserID, &v.CreatedByRoleID)
	if err != nil {
		return nil, s.mapError(err)
	}
	v.Status = entity.TaskStatus(status)
	return &v, nil
}

func (s *DB) GetExportRequest(ctx context.Context, id string) (_ *entity.ExportRequest, err error) {
	ctx, span := s.startSpan(ctx, "GetExportRequest")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT id, innovation_id, status, COALESCE(reject_reason, ''), created_by, created_by_user_role_id
		FROM innovation_export_requests WHERE id = $1`

	var (
		v      entity.ExportRequest
		status string
	)
	err = s.conn.QueryRow(ctx, query, id).
		Scan(&v.ID, &v.InnovationID, &status, &v.RejectReason, &v.CreatedByUserID, &v.CreatedByRoleID)
	if err != nil {
		return nil, s.mapError(err)
	}
	v.Status = entity.ExportRequestStatus(status)
	return &v, nil
}

func (s *DB) GetOrganisationName(ctx context.Context, id string) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "GetOrganisationName")
	defer func() { s.endSpan(span, err) }()

	var name string
	if err = s.conn.QueryRow(ctx, `SELECT name FROM organisations WHERE id = $1`, id).Scan(&name); err != nil {
		return "", s.mapError(err)
	}
	return name, nil
}

func (s *DB) GetOrganisationUnitName(ctx context.Context, id string) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "GetOrganisationUnitName")
	defer func() { s.endSpan(span, err) }()

	var name string
	if err = s.conn.QueryRow(ctx, `SELECT name FROM organisation_units WHERE id = $1`, id).Scan(&name); err != nil {
		return "", s.mapError(err)
	}
	return name, nil
}
