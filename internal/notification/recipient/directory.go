// Package recipient resolves abstract audiences ("the innovation owner",
// "QAs of these units", "everyone who wrote in this thread") into concrete
// recipients with their notification preferences attached.
//
// Lookups of a required entity return an error matching goerror.ErrNotFound
// when it is missing. Candidate set lookups never fail for "nobody": an
// empty slice is a normal outcome.
package recipient

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

type repoDB interface {
	GetInnovation(ctx context.Context, id string, withDeleted bool) (*entity.Innovation, error)
	GetInnovationOwner(ctx context.Context, innovationID string) (*entity.Recipient, error)
	ListActiveCollaborators(ctx context.Context, innovationID string) ([]entity.Recipient, error)
	ListAssessmentUsers(ctx context.Context) ([]entity.Recipient, error)
	ListUnitQualifyingAccessors(ctx context.Context, unitIDs []string) ([]entity.Recipient, error)
	ListRecipientsByRoleIDs(ctx context.Context, roleIDs []string) ([]entity.Recipient, error)
	ListRecipientsByUserIDs(ctx context.Context, userIDs []string, roles []entity.Role) ([]entity.Recipient, error)
	ListRecipientsByIdentityIDs(ctx context.Context, identityIDs []string, role entity.Role) ([]entity.Recipient, error)

	GetThread(ctx context.Context, id string) (*entity.Thread, error)
	ListThreadFollowers(ctx context.Context, threadID string) ([]entity.Recipient, error)
	ListThreadIntervenients(ctx context.Context, threadID string) ([]entity.Recipient, error)

	GetCollaborator(ctx context.Context, id string) (*entity.Collaborator, error)
	GetTransfer(ctx context.Context, id string) (*entity.Transfer, error)
	GetTask(ctx context.Context, id string) (*entity.Task, error)
	GetExportRequest(ctx context.Context, id string) (*entity.ExportRequest, error)
	GetOrganisationName(ctx context.Context, id string) (string, error)
	GetOrganisationUnitName(ctx context.Context, id string) (string, error)
	ListIdleSupports(ctx context.Context) ([]entity.IdleSupport, error)

	ListPreferencesByRoleIDs(ctx context.Context, roleIDs []string) ([]entity.Preference, error)
}

type identityProvider interface {
	GetUsersMap(ctx context.Context, identityIDs []string) (map[string]entity.IdentityInfo, error)
	GetUserInfoByEmail(ctx context.Context, email string) (*entity.IdentityInfo, error)
}

type Directory struct {
	repo     repoDB
	identity identityProvider
	ins      instrument.Instrumentation
}

func NewDirectory(repo repoDB, identity identityProvider, ins instrument.Instrumentation) *Directory {
	return &Directory{repo: repo, identity: identity, ins: ins}
}

func (d *Directory) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return d.ins.Tracer("notification.recipient").Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// required turns a repository miss into a NotFound naming kind and id.
func required[T any](v *T, err error, kind, id string) (T, error) {
	var zero T
	if errors.Is(err, goerror.ErrNotFound) || (err == nil && v == nil) {
		return zero, entity.NotFound(kind, id)
	}
	if err != nil {
		return zero, err
	}
	return *v, nil
}

// candidates swallows a repository miss, dedupes by role and attaches
// preferences.
func (d *Directory) candidates(ctx context.Context, list []entity.Recipient, err error) ([]entity.Recipient, error) {
	if errors.Is(err, goerror.ErrNotFound) {
		return []entity.Recipient{}, nil
	}
	if err != nil {
		return nil, err
	}

	list = lo.UniqBy(list, func(r entity.Recipient) string { return r.RoleID })
	return d.withPreferences(ctx, list)
}

func (d *Directory) withPreferences(ctx context.Context, list []entity.Recipient) ([]entity.Recipient, error) {
	if len(list) == 0 {
		return []entity.Recipient{}, nil
	}

	roleIDs := lo.Map(list, func(r entity.Recipient, _ int) string { return r.RoleID })
	prefs, err := d.repo.ListPreferencesByRoleIDs(ctx, roleIDs)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list preferences by role ids", "role_ids", roleIDs, "error", err)
		return nil, err
	}

	byRole := lo.GroupBy(prefs, func(p entity.Preference) string { return p.RoleID })
	out := make([]entity.Recipient, len(list))
	for i, r := range list {
		r.Preferences = make(map[entity.Category]entity.Setting, len(byRole[r.RoleID]))
		for _, p := range byRole[r.RoleID] {
			r.Preferences[p.Category] = p.Setting
		}
		out[i] = r
	}
	return out, nil
}

// Innovation returns the innovation, optionally including a soft deleted one.
func (d *Directory) Innovation(ctx context.Context, id string, withDeleted bool) (_ entity.Innovation, err error) {
	ctx, span := d.startSpan(ctx, "Innovation")
	defer func() { endSpan(span, err) }()

	v, err := d.repo.GetInnovation(ctx, id, withDeleted)
	return required(v, err, "innovation", id)
}

// InnovationOwner returns the owner even when the owner's account is soft
// deleted, so the notification history stays complete.
func (d *Directory) InnovationOwner(ctx context.Context, innovationID string) (_ entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "InnovationOwner")
	defer func() { endSpan(span, err) }()

	v, err := d.repo.GetInnovationOwner(ctx, innovationID)
	owner, err := required(v, err, "innovation owner", innovationID)
	if err != nil {
		return entity.Recipient{}, err
	}

	list, err := d.withPreferences(ctx, []entity.Recipient{owner})
	if err != nil {
		return entity.Recipient{}, err
	}
	return list[0], nil
}

func (d *Directory) ActiveCollaborators(ctx context.Context, innovationID string) (_ []entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "ActiveCollaborators")
	defer func() { endSpan(span, err) }()

	list, err := d.repo.ListActiveCollaborators(ctx, innovationID)
	return d.candidates(ctx, list, err)
}

// InnovationOwnerAndActiveCollaborators returns the owner first, then every
// collaborator whose status is ACTIVE.
func (d *Directory) InnovationOwnerAndActiveCollaborators(ctx context.Context, innovationID string) (_ []entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "InnovationOwnerAndActiveCollaborators")
	span.SetAttributes(attribute.String("innovation_id", innovationID))
	defer func() { endSpan(span, err) }()

	var (
		owner         *entity.Recipient
		collaborators []entity.Recipient
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := d.repo.GetInnovationOwner(gctx, innovationID)
		o, err := required(v, err, "innovation owner", innovationID)
		owner = &o
		return err
	})
	g.Go(func() error {
		list, err := d.repo.ListActiveCollaborators(gctx, innovationID)
		if errors.Is(err, goerror.ErrNotFound) {
			return nil
		}
		collaborators = list
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return d.candidates(ctx, append([]entity.Recipient{*owner}, collaborators...), nil)
}

func (d *Directory) AssessmentUsers(ctx context.Context) (_ []entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "AssessmentUsers")
	defer func() { endSpan(span, err) }()

	list, err := d.repo.ListAssessmentUsers(ctx)
	return d.candidates(ctx, list, err)
}

// UnitQualifyingAccessors returns QA users of unitIDs. Units without QAs
// simply contribute nobody.
func (d *Directory) UnitQualifyingAccessors(ctx context.Context, unitIDs []string) (_ []entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "UnitQualifyingAccessors")
	defer func() { endSpan(span, err) }()

	unitIDs = lo.Uniq(lo.Compact(unitIDs))
	if len(unitIDs) == 0 {
		return []entity.Recipient{}, nil
	}

	list, err := d.repo.ListUnitQualifyingAccessors(ctx, unitIDs)
	return d.candidates(ctx, list, err)
}

func (d *Directory) RoleRecipients(ctx context.Context, roleIDs []string) (_ []entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "RoleRecipients")
	defer func() { endSpan(span, err) }()

	roleIDs = lo.Uniq(lo.Compact(roleIDs))
	if len(roleIDs) == 0 {
		return []entity.Recipient{}, nil
	}

	list, err := d.repo.ListRecipientsByRoleIDs(ctx, roleIDs)
	return d.candidates(ctx, list, err)
}

// UserRecipients returns the roles of userIDs restricted to roles. With no
// roles every role of the users is returned.
func (d *Directory) UserRecipients(ctx context.Context, userIDs []string, roles ...entity.Role) (_ []entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "UserRecipients")
	defer func() { endSpan(span, err) }()

	userIDs = lo.Uniq(lo.Compact(userIDs))
	if len(userIDs) == 0 {
		return []entity.Recipient{}, nil
	}

	list, err := d.repo.ListRecipientsByUserIDs(ctx, userIDs, roles)
	return d.candidates(ctx, list, err)
}

func (d *Directory) IdentityRecipients(ctx context.Context, identityIDs []string, role entity.Role) (_ []entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "IdentityRecipients")
	defer func() { endSpan(span, err) }()

	identityIDs = lo.Uniq(lo.Compact(identityIDs))
	if len(identityIDs) == 0 {
		return []entity.Recipient{}, nil
	}

	list, err := d.repo.ListRecipientsByIdentityIDs(ctx, identityIDs, role)
	return d.candidates(ctx, list, err)
}

func (d *Directory) Thread(ctx context.Context, id string) (_ entity.Thread, err error) {
	ctx, span := d.startSpan(ctx, "Thread")
	defer func() { endSpan(span, err) }()

	v, err := d.repo.GetThread(ctx, id)
	return required(v, err, "thread", id)
}

func (d *Directory) ThreadFollowers(ctx context.Context, threadID string) (_ []entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "ThreadFollowers")
	defer func() { endSpan(span, err) }()

	list, err := d.repo.ListThreadFollowers(ctx, threadID)
	return d.candidates(ctx, list, err)
}

// ThreadIntervenients returns every distinct author of the thread or of any
// of its messages, in order of first contribution.
func (d *Directory) ThreadIntervenients(ctx context.Context, threadID string) (_ []entity.Recipient, err error) {
	ctx, span := d.startSpan(ctx, "ThreadIntervenients")
	defer func() { endSpan(span, err) }()

	list, err := d.repo.ListThreadIntervenients(ctx, threadID)
	return d.candidates(ctx, list, err)
}

func (d *Directory) Collaborator(ctx context.Context, id string) (_ entity.Collaborator, err error) {
	ctx, span := d.startSpan(ctx, "Collaborator")
	defer func() { endSpan(span, err) }()

	v, err := d.repo.GetCollaborator(ctx, id)
	return required(v, err, "collaborator", id)
}

func (d *Directory) Transfer(ctx context.Context, id string) (_ entity.Transfer, err error) {
	ctx, span := d.startSpan(ctx, "Transfer")
	defer func() { endSpan(span, err) }()

	v, err := d.repo.GetTransfer(ctx, id)
	return required(v, err, "transfer", id)
}

func (d *Directory) Task(ctx context.Context, id string) (_ entity.Task, err error) {
	ctx, span := d.startSpan(ctx, "Task")
	defer func() { endSpan(span, err) }()

	v, err := d.repo.GetTask(ctx, id)
	return required(v, err, "task", id)
}

func (d *Directory) ExportRequest(ctx context.Context, id string) (_ entity.ExportRequest, err error) {
	ctx, span := d.startSpan(ctx, "ExportRequest")
	defer func() { endSpan(span, err) }()

	v, err := d.repo.GetExportRequest(ctx, id)
	return required(v, err, "export request", id)
}

// OrganisationName is optional context: a missing organisation yields "".
func (d *Directory) OrganisationName(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	name, err := d.repo.GetOrganisationName(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return "", nil
	}
	return name, err
}

// OrganisationUnitName is optional context: a missing unit yields "".
func (d *Directory) OrganisationUnitName(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	name, err := d.repo.GetOrganisationUnitName(ctx, id)
	if errors.Is(err, goerror.ErrNotFound) {
		return "", nil
	}
	return name, err
}

func (d *Directory) IdleSupports(ctx context.Context) (_ []entity.IdleSupport, err error) {
	ctx, span := d.startSpan(ctx, "IdleSupports")
	defer func() { endSpan(span, err) }()

	list, err := d.repo.ListIdleSupports(ctx)
	if errors.Is(err, goerror.ErrNotFound) {
		return []entity.IdleSupport{}, nil
	}
	if err != nil {
		return nil, err
	}

	for i := range list {
		accessors, err := d.withPreferences(ctx, list[i].Accessors)
		if err != nil {
			return nil, err
		}
		list[i].Accessors = accessors
	}
	return list, nil
}

// UsersIdentityInfo always returns a map. Unknown identities are absent.
func (d *Directory) UsersIdentityInfo(ctx context.Context, identityIDs []string) (_ map[string]entity.IdentityInfo, err error) {
	ctx, span := d.startSpan(ctx, "UsersIdentityInfo")
	defer func() { endSpan(span, err) }()

	identityIDs = lo.Uniq(lo.Compact(identityIDs))
	if len(identityIDs) == 0 {
		return map[string]entity.IdentityInfo{}, nil
	}

	m, err := d.identity.GetUsersMap(ctx, identityIDs)
	if err != nil {
		slog.ErrorContext(ctx, "failed to identity get users map", "identity_ids", identityIDs, "error", err)
		return nil, err
	}
	if m == nil {
		m = map[string]entity.IdentityInfo{}
	}
	return m, nil
}

// UserInfoByEmail returns nil when no account uses email.
func (d *Directory) UserInfoByEmail(ctx context.Context, email string) (_ *entity.IdentityInfo, err error) {
	ctx, span := d.startSpan(ctx, "UserInfoByEmail")
	defer func() { endSpan(span, err) }()

	info, err := d.identity.GetUserInfoByEmail(ctx, email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, nil
	}
	return info, err
}
