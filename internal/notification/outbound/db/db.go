package db

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

//go:embed schema.sql
var schema string

const defaultIdleAfterDays = 30

type DB struct {
	conn          *pgxpool.Pool
	ins           instrument.Instrumentation
	idleAfterDays int
}

// NewDB builds the repository. Supports engaging for longer than
// idleAfter without activity are reported as idle; zero means 30 days.
func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation, idleAfter time.Duration) *DB {
	days := int(idleAfter / (24 * time.Hour))
	if days <= 0 {
		days = defaultIdleAfterDays
	}
	return &DB{conn: conn, ins: ins, idleAfterDays: days}
}

// Migrate creates the tables the engine reads and writes when missing.
func (s *DB) Migrate(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "Migrate")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, schema)
	return err
}

// - 23505 unique violation → goerror.ErrConflict
// - 23503 foreign_key_violation → goerror.ErrNotFound
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return goerror.ErrConflict
		case "23503":
			return goerror.ErrNotFound
		}
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// recipientColumns selects a Recipient from user_roles ur joined to users u.
// A soft deleted user is still returned but never active.
const recipientColumns = `u.id, ur.id, ur.role, u.identity_id,
	COALESCE(ur.organisation_id, ''), COALESCE(ur.organisation_unit_id, ''),
	u.is_locked, (u.is_active AND ur.is_active AND u.deleted_at IS NULL)`

const recipientFrom = ` FROM user_roles ur JOIN users u ON u.id = ur.user_id`

func scanRecipient(row pgx.CollectableRow) (entity.Recipient, error) {
	var (
		r    entity.Recipient
		role string
	)
	err := row.Scan(&r.UserID, &r.RoleID, &role, &r.IdentityID, &r.OrganisationID, &r.OrganisationUnitID, &r.IsLocked, &r.IsActive)
	r.Role = entity.Role(role)
	return r, err
}

func (s *DB) listRecipients(ctx context.Context, query string, args ...any) ([]entity.Recipient, error) {
	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, s.mapError(err)
	}

	list, err := pgx.CollectRows(rows, scanRecipient)
	if err != nil {
		return nil, s.mapError(err)
	}
	return list, nil
}

func rolesToStrings(roles []entity.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
