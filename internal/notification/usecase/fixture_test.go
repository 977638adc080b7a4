package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/notification/handler"
	"github.com/shandysiswandi/notifyhub/internal/notification/preference"
	"github.com/shandysiswandi/notifyhub/internal/pkg/authz"
	"github.com/shandysiswandi/notifyhub/internal/pkg/clock"
	"github.com/shandysiswandi/notifyhub/internal/pkg/config"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"github.com/shandysiswandi/notifyhub/internal/pkg/jwt"
	"github.com/shandysiswandi/notifyhub/internal/pkg/uid"
	"github.com/shandysiswandi/notifyhub/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

var (
	now      = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	owner    = entity.Recipient{UserID: "o1", RoleID: "ro1", Role: entity.RoleInnovator, IdentityID: "io1", IsActive: true}
	assessor = entity.Recipient{UserID: "n1", RoleID: "rn1", Role: entity.RoleAssessment, IdentityID: "in1", IsActive: true}
	accessor = entity.ActorRef{UserID: "a1", IdentityID: "ia1", Role: entity.RoleAccessor, RoleID: "ra1", OrganisationUnitID: "un1"}
	errBoom  = errors.New("boom")
)

const testConfig = `
modules:
  notification:
    email:
      max_retries: 2
      backoff_ms: 1
`

var testPolicies = []string{
	"INNOVATOR, notification:inbox, *",
	"INNOVATOR, notification:preferences, *",
	"ACCESSOR, notification:inbox, read",
	"ADMIN, notification:digest, read",
}

// stubDirectory serves one innovation owned by owner. Methods the tests do
// not reach are left to the embedded nil interface.
type stubDirectory struct {
	handler.Directory
}

func (stubDirectory) Innovation(_ context.Context, id string, _ bool) (entity.Innovation, error) {
	if id != "i1" {
		return entity.Innovation{}, entity.NotFound("innovation", id)
	}
	return entity.Innovation{ID: "i1", Name: "Kit", OwnerUserID: "o1", OwnerIdentityID: "io1"}, nil
}

func (stubDirectory) InnovationOwnerAndActiveCollaborators(context.Context, string) ([]entity.Recipient, error) {
	return []entity.Recipient{owner}, nil
}

func (stubDirectory) AssessmentUsers(context.Context) ([]entity.Recipient, error) {
	return []entity.Recipient{assessor}, nil
}

func (stubDirectory) OrganisationUnitName(context.Context, string) (string, error) {
	return "Unit One", nil
}

type fakeRepo struct {
	repoDB

	mu         sync.Mutex
	saved      []entity.Notification
	savedUsers [][]entity.NotificationUser
	saveErr    error
	// failOnceDetail fails the next save of that context detail only.
	failOnceDetail entity.TemplateID
	inbox          []entity.InboxItem
	lastFilter     entity.InboxFilter
	counters       []entity.InboxCounter
	markFound      bool
	readAt         time.Time
	preferences    []entity.Preference
	upserted       []entity.Preference
	upsertedRole   string
	repoErr        error
}

func (f *fakeRepo) SaveInAppNotification(_ context.Context, n entity.Notification, users []entity.NotificationUser) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return 0, false, f.saveErr
	}
	if f.failOnceDetail != "" && n.ContextDetail == f.failOnceDetail {
		f.failOnceDetail = ""
		return 0, false, errBoom
	}
	if n.DispatchKey != "" {
		for _, s := range f.saved {
			if s.DispatchKey == n.DispatchKey {
				return s.ID, false, nil
			}
		}
	}
	f.saved = append(f.saved, n)
	f.savedUsers = append(f.savedUsers, users)
	return n.ID, true, nil
}

func (f *fakeRepo) ListInbox(_ context.Context, filter entity.InboxFilter) ([]entity.InboxItem, error) {
	f.lastFilter = filter
	return f.inbox, f.repoErr
}

func (f *fakeRepo) CountUnreadInbox(context.Context, string) ([]entity.InboxCounter, error) {
	return f.counters, f.repoErr
}

func (f *fakeRepo) MarkInboxRead(_ context.Context, _ string, _ int64, at time.Time) (bool, error) {
	f.readAt = at
	return f.markFound, f.repoErr
}

func (f *fakeRepo) MarkInboxReadAll(_ context.Context, _ string, at time.Time) (int64, error) {
	f.readAt = at
	return 3, f.repoErr
}

func (f *fakeRepo) SoftDeleteInbox(context.Context, string, int64, time.Time) (bool, error) {
	return f.markFound, f.repoErr
}

func (f *fakeRepo) ListPreferences(context.Context, string) ([]entity.Preference, error) {
	return f.preferences, f.repoErr
}

func (f *fakeRepo) UpsertPreferences(_ context.Context, roleID string, prefs []entity.Preference) error {
	f.upsertedRole = roleID
	f.upserted = prefs
	return f.repoErr
}

type fakeDigest struct {
	list     []entity.Recipient
	err      error
	category entity.Category
}

func (f *fakeDigest) DigestCandidates(_ context.Context, category entity.Category) ([]entity.Recipient, error) {
	f.category = category
	return f.list, f.err
}

type sentMail struct {
	TemplateID entity.TemplateID
	To         string
	Params     map[string]string
}

type fakeMail struct {
	mu   sync.Mutex
	sent []sentMail
	// fails makes the first n calls fail.
	fails int
	calls int
}

func (f *fakeMail) Send(_ context.Context, tpl entity.TemplateID, to string, params map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.fails {
		return errBoom
	}
	f.sent = append(f.sent, sentMail{TemplateID: tpl, To: to, Params: params})
	return nil
}

type fakeIdentity map[string]entity.IdentityInfo

func (f fakeIdentity) GetUserInfo(_ context.Context, identityID string) (*entity.IdentityInfo, error) {
	info, ok := f[identityID]
	if !ok {
		return nil, nil
	}
	return &info, nil
}

type fixture struct {
	uc     *Usecase
	repo   *fakeRepo
	mail   *fakeMail
	ident  fakeIdentity
	digest *fakeDigest
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	require.NoError(t, err)
	v, err := validator.NewV10Validator()
	require.NoError(t, err)
	sf, err := uid.NewSnowflake(1)
	require.NoError(t, err)
	enforcer, err := authz.New(testPolicies)
	require.NoError(t, err)
	u, err := handler.NewURL("https://app.example.test")
	require.NoError(t, err)
	labels, err := handler.NewLabels()
	require.NoError(t, err)
	reg, err := handler.NewRegistry(nil, handler.Definitions()...)
	require.NoError(t, err)

	f := &fixture{
		repo:   &fakeRepo{},
		mail:   &fakeMail{},
		digest: &fakeDigest{},
		ident: fakeIdentity{
			"io1": {IdentityID: "io1", DisplayName: "Olivia", Email: "owner@example.test"},
			"in1": {IdentityID: "in1", DisplayName: "Nadia", Email: "assessor@example.test"},
		},
	}
	f.uc = NewNotification(Dependency{
		RepoDB:   f.repo,
		RepoMail: f.mail,
		Identity: f.ident,
		Digest:   f.digest,
		Registry: reg,
		Services: handler.Services{
			Directory:   stubDirectory{},
			Preferences: preference.NewResolver(nil, instrument.NewNoop()),
			URL:         u,
			Labels:      labels,
		},
		Config:     cfg,
		UID:        sf,
		Clock:      clock.Fixed(now),
		Validator:  v,
		Enforcer:   enforcer,
		Instrument: instrument.NewNoop(),
	})
	return f
}

func asInnovator(ctx context.Context) context.Context {
	return jwt.SetAuth(ctx, jwt.Claims{Principal: jwt.Principal{UserID: "o1", IdentityID: "io1", Role: "INNOVATOR", RoleID: "ro1"}})
}

func asAdmin(ctx context.Context) context.Context {
	return jwt.SetAuth(ctx, jwt.Claims{Principal: jwt.Principal{UserID: "ad1", IdentityID: "iad1", Role: "ADMIN", RoleID: "rad1"}})
}

func asAccessor(ctx context.Context) context.Context {
	return jwt.SetAuth(ctx, jwt.Claims{Principal: jwt.Principal{UserID: "a1", IdentityID: "ia1", Role: "ACCESSOR", RoleID: "ra1"}})
}
