package handler

import (
	"context"
	"slices"
	"testing"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/notification/preference"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"github.com/stretchr/testify/require"
)

var (
	owner    = entity.Recipient{UserID: "o1", RoleID: "ro1", Role: entity.RoleInnovator, IdentityID: "io1", IsActive: true}
	collab   = entity.Recipient{UserID: "c1", RoleID: "rc1", Role: entity.RoleInnovator, IdentityID: "ic1", IsActive: true}
	accessor = entity.Recipient{UserID: "a1", RoleID: "ra1", Role: entity.RoleAccessor, IdentityID: "ia1", OrganisationUnitID: "un1", IsActive: true}
	qa       = entity.Recipient{UserID: "q1", RoleID: "rq1", Role: entity.RoleQualifyingAccessor, IdentityID: "iq1", OrganisationUnitID: "un1", IsActive: true}
	assessor = entity.Recipient{UserID: "s1", RoleID: "rs1", Role: entity.RoleAssessment, IdentityID: "is1", IsActive: true}
	kit      = entity.Innovation{ID: "i1", Name: "Kit", OwnerUserID: "o1", OwnerIdentityID: "io1"}
	webBase  = "https://app.example.test"
	noActor  = entity.ActorRef{UserID: "system", IdentityID: "system", Role: entity.RoleAdmin, RoleID: "rsys"}
)

func actorOf(r entity.Recipient) entity.ActorRef {
	return entity.ActorRef{
		UserID:             r.UserID,
		IdentityID:         r.IdentityID,
		Role:               r.Role,
		RoleID:             r.RoleID,
		OrganisationUnitID: r.OrganisationUnitID,
	}
}

// fakeDirectory is an in-memory Directory. people holds every known role.
type fakeDirectory struct {
	innovations   map[string]entity.Innovation
	owners        map[string]entity.Recipient
	collaborators map[string][]entity.Recipient
	people        []entity.Recipient
	threads       map[string]entity.Thread
	followers     map[string][]entity.Recipient
	intervenients map[string][]entity.Recipient
	collabRecords map[string]entity.Collaborator
	transfers     map[string]entity.Transfer
	tasks         map[string]entity.Task
	exports       map[string]entity.ExportRequest
	units         map[string]string
	orgs          map[string]string
	idle          []entity.IdleSupport
	identities    map[string]entity.IdentityInfo
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		innovations:   map[string]entity.Innovation{kit.ID: kit},
		owners:        map[string]entity.Recipient{kit.ID: owner},
		collaborators: map[string][]entity.Recipient{},
		people:        []entity.Recipient{owner, collab, accessor, qa, assessor},
		threads:       map[string]entity.Thread{},
		followers:     map[string][]entity.Recipient{},
		intervenients: map[string][]entity.Recipient{},
		collabRecords: map[string]entity.Collaborator{},
		transfers:     map[string]entity.Transfer{},
		tasks:         map[string]entity.Task{},
		exports:       map[string]entity.ExportRequest{},
		units:         map[string]string{"un1": "Unit One"},
		orgs:          map[string]string{"org1": "Org One"},
		identities:    map[string]entity.IdentityInfo{},
	}
}

func lookup[T any](m map[string]T, kind, id string) (T, error) {
	v, ok := m[id]
	if !ok {
		var zero T
		return zero, entity.NotFound(kind, id)
	}
	return v, nil
}

func (f *fakeDirectory) Innovation(_ context.Context, id string, _ bool) (entity.Innovation, error) {
	return lookup(f.innovations, "innovation", id)
}

func (f *fakeDirectory) InnovationOwner(_ context.Context, id string) (entity.Recipient, error) {
	return lookup(f.owners, "innovation owner", id)
}

func (f *fakeDirectory) ActiveCollaborators(_ context.Context, id string) ([]entity.Recipient, error) {
	return slices.Clone(f.collaborators[id]), nil
}

func (f *fakeDirectory) InnovationOwnerAndActiveCollaborators(ctx context.Context, id string) ([]entity.Recipient, error) {
	o, err := f.InnovationOwner(ctx, id)
	if err != nil {
		return nil, err
	}
	return append([]entity.Recipient{o}, f.collaborators[id]...), nil
}

func (f *fakeDirectory) AssessmentUsers(context.Context) ([]entity.Recipient, error) {
	return f.filter(func(r entity.Recipient) bool { return r.Role == entity.RoleAssessment }), nil
}

func (f *fakeDirectory) UnitQualifyingAccessors(_ context.Context, unitIDs []string) ([]entity.Recipient, error) {
	return f.filter(func(r entity.Recipient) bool {
		return r.Role == entity.RoleQualifyingAccessor && slices.Contains(unitIDs, r.OrganisationUnitID)
	}), nil
}

func (f *fakeDirectory) RoleRecipients(_ context.Context, roleIDs []string) ([]entity.Recipient, error) {
	return f.filter(func(r entity.Recipient) bool { return slices.Contains(roleIDs, r.RoleID) }), nil
}

func (f *fakeDirectory) UserRecipients(_ context.Context, userIDs []string, roles ...entity.Role) ([]entity.Recipient, error) {
	return f.filter(func(r entity.Recipient) bool {
		return slices.Contains(userIDs, r.UserID) && (len(roles) == 0 || slices.Contains(roles, r.Role))
	}), nil
}

func (f *fakeDirectory) IdentityRecipients(_ context.Context, identityIDs []string, role entity.Role) ([]entity.Recipient, error) {
	return f.filter(func(r entity.Recipient) bool {
		return slices.Contains(identityIDs, r.IdentityID) && r.Role == role
	}), nil
}

func (f *fakeDirectory) Thread(_ context.Context, id string) (entity.Thread, error) {
	return lookup(f.threads, "thread", id)
}

func (f *fakeDirectory) ThreadFollowers(_ context.Context, id string) ([]entity.Recipient, error) {
	return slices.Clone(f.followers[id]), nil
}

func (f *fakeDirectory) ThreadIntervenients(_ context.Context, id string) ([]entity.Recipient, error) {
	return slices.Clone(f.intervenients[id]), nil
}

func (f *fakeDirectory) Collaborator(_ context.Context, id string) (entity.Collaborator, error) {
	return lookup(f.collabRecords, "collaborator", id)
}

func (f *fakeDirectory) Transfer(_ context.Context, id string) (entity.Transfer, error) {
	return lookup(f.transfers, "transfer", id)
}

func (f *fakeDirectory) Task(_ context.Context, id string) (entity.Task, error) {
	return lookup(f.tasks, "task", id)
}

func (f *fakeDirectory) ExportRequest(_ context.Context, id string) (entity.ExportRequest, error) {
	return lookup(f.exports, "export request", id)
}

func (f *fakeDirectory) OrganisationName(_ context.Context, id string) (string, error) {
	return f.orgs[id], nil
}

func (f *fakeDirectory) OrganisationUnitName(_ context.Context, id string) (string, error) {
	return f.units[id], nil
}

func (f *fakeDirectory) IdleSupports(context.Context) ([]entity.IdleSupport, error) {
	return slices.Clone(f.idle), nil
}

func (f *fakeDirectory) UsersIdentityInfo(_ context.Context, ids []string) (map[string]entity.IdentityInfo, error) {
	out := map[string]entity.IdentityInfo{}
	for _, id := range ids {
		if info, ok := f.identities[id]; ok {
			out[id] = info
		}
	}
	return out, nil
}

func (f *fakeDirectory) UserInfoByEmail(_ context.Context, email string) (*entity.IdentityInfo, error) {
	for _, info := range f.identities {
		if info.Email == email {
			return &info, nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) filter(keep func(entity.Recipient) bool) []entity.Recipient {
	var out []entity.Recipient
	for _, r := range f.people {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func newServices(t *testing.T, dir Directory) Services {
	t.Helper()

	u, err := NewURL(webBase)
	require.NoError(t, err)
	labels, err := NewLabels()
	require.NoError(t, err)

	return Services{
		Directory:   dir,
		Preferences: preference.NewResolver(nil, instrument.NewNoop()),
		URL:         u,
		Labels:      labels,
	}
}

func runEvent(t *testing.T, dir Directory, event entity.EventType, actor entity.ActorRef, payload any) (*Context, error) {
	t.Helper()

	reg, err := NewRegistry(nil, Definitions()...)
	require.NoError(t, err)
	def, err := reg.Lookup(event)
	require.NoError(t, err)

	hc := NewContext(event, actor, newServices(t, dir))
	return hc, def.Run(context.Background(), hc, payload)
}

// emailed returns "template>address" for every email intent, in order.
func emailed(hc *Context) []string {
	out := []string{}
	for _, e := range hc.Emails() {
		out = append(out, string(e.TemplateID)+">"+e.To.Value)
	}
	return out
}

// inAppRoles returns the recipient role ids of every in-app intent by detail.
func inAppRoles(hc *Context) map[entity.TemplateID][]string {
	out := map[entity.TemplateID][]string{}
	for _, n := range hc.InApp() {
		out[n.Context.Detail] = append(out[n.Context.Detail], n.RecipientRoleIDs...)
	}
	return out
}
