// Package handler holds the notification policies: one handler per event
// type, each resolving its audience through a Directory and recording email
// and in-app intents on a Context. Handlers never write to storage and never
// send email themselves.
package handler

import (
	"context"
	"maps"

	"github.com/samber/lo"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/valueobject"
)

// Directory is the read side a handler resolves recipients and required
// entities from.
type Directory interface {
	Innovation(ctx context.Context, id string, withDeleted bool) (entity.Innovation, error)
	InnovationOwner(ctx context.Context, innovationID string) (entity.Recipient, error)
	ActiveCollaborators(ctx context.Context, innovationID string) ([]entity.Recipient, error)
	InnovationOwnerAndActiveCollaborators(ctx context.Context, innovationID string) ([]entity.Recipient, error)
	AssessmentUsers(ctx context.Context) ([]entity.Recipient, error)
	UnitQualifyingAccessors(ctx context.Context, unitIDs []string) ([]entity.Recipient, error)
	RoleRecipients(ctx context.Context, roleIDs []string) ([]entity.Recipient, error)
	UserRecipients(ctx context.Context, userIDs []string, roles ...entity.Role) ([]entity.Recipient, error)
	IdentityRecipients(ctx context.Context, identityIDs []string, role entity.Role) ([]entity.Recipient, error)

	Thread(ctx context.Context, id string) (entity.Thread, error)
	ThreadFollowers(ctx context.Context, threadID string) ([]entity.Recipient, error)
	ThreadIntervenients(ctx context.Context, threadID string) ([]entity.Recipient, error)

	Collaborator(ctx context.Context, id string) (entity.Collaborator, error)
	Transfer(ctx context.Context, id string) (entity.Transfer, error)
	Task(ctx context.Context, id string) (entity.Task, error)
	ExportRequest(ctx context.Context, id string) (entity.ExportRequest, error)
	OrganisationName(ctx context.Context, id string) (string, error)
	OrganisationUnitName(ctx context.Context, id string) (string, error)
	IdleSupports(ctx context.Context) ([]entity.IdleSupport, error)

	UsersIdentityInfo(ctx context.Context, identityIDs []string) (map[string]entity.IdentityInfo, error)
	UserInfoByEmail(ctx context.Context, email string) (*entity.IdentityInfo, error)
}

type Preferences interface {
	IsInstantly(category entity.Category, r entity.Recipient) bool
}

// Services are shared, read only collaborators. One value serves every run.
type Services struct {
	Directory   Directory
	Preferences Preferences
	URL         *URL
	Labels      *Labels
}

// Context carries one handler run: the actor, the services and the intent
// buffers. A Context must not be reused across events.
type Context struct {
	Services

	Event entity.EventType
	Actor entity.ActorRef

	emails []entity.EmailIntent
	inApp  []entity.InAppIntent
}

func NewContext(event entity.EventType, actor entity.ActorRef, svc Services) *Context {
	return &Context{Services: svc, Event: event, Actor: actor}
}

// Params builds the email params of one recipient.
type Params func(r entity.Recipient) map[string]string

// Static gives every recipient a copy of m.
func Static(m map[string]string) Params {
	return func(entity.Recipient) map[string]string { return maps.Clone(m) }
}

// ExcludeActor drops the recipients belonging to the user who caused the event.
func (c *Context) ExcludeActor(list []entity.Recipient) []entity.Recipient {
	return lo.Filter(list, func(r entity.Recipient, _ int) bool {
		return r.UserID != c.Actor.UserID
	})
}

func (c *Context) IsActor(r entity.Recipient) bool {
	return r.UserID == c.Actor.UserID
}

// IsEmailPreferenceInstantly reports whether r gets an email of category now.
func (c *Context) IsEmailPreferenceInstantly(category entity.Category, r entity.Recipient) bool {
	return c.Preferences.IsInstantly(category, r)
}

// AddEmails records one email per recipient that can be emailed now: locked
// or inactive accounts and recipients who do not want category instantly
// are skipped.
func (c *Context) AddEmails(tpl entity.TemplateID, category entity.Category, recipients []entity.Recipient, params Params) {
	for _, r := range recipients {
		if r.IsLocked || !r.IsActive {
			continue
		}
		if !c.IsEmailPreferenceInstantly(category, r) {
			continue
		}
		c.emails = append(c.emails, entity.EmailIntent{
			TemplateID: tpl,
			To:         entity.ToIdentity(r),
			Category:   category,
			Params:     params(r),
		})
	}
}

// AddEmailTo records an email for an address that is not a resolved
// recipient, typically a raw mailbox of someone without an account.
func (c *Context) AddEmailTo(tpl entity.TemplateID, to entity.EmailTo, category entity.Category, params map[string]string) {
	c.emails = append(c.emails, entity.EmailIntent{
		TemplateID: tpl,
		To:         to,
		Category:   category,
		Params:     maps.Clone(params),
	})
}

// AddInApp records an in-app notification for recipients. Locked accounts
// still receive it. Role ids are deduplicated keeping the first occurrence.
func (c *Context) AddInApp(innovationID string, ctx entity.InAppContext, recipients []entity.Recipient, params map[string]any) {
	roleIDs := lo.Uniq(lo.Map(recipients, func(r entity.Recipient, _ int) string { return r.RoleID }))
	c.inApp = append(c.inApp, entity.InAppIntent{
		InnovationID:     innovationID,
		Context:          ctx,
		RecipientRoleIDs: roleIDs,
		Params:           valueobject.JSONMap(maps.Clone(params)),
	})
}

// Emails returns the recorded email intents in the order they were added.
func (c *Context) Emails() []entity.EmailIntent {
	return append([]entity.EmailIntent(nil), c.emails...)
}

// InApp returns the recorded in-app intents in the order they were added.
func (c *Context) InApp() []entity.InAppIntent {
	return append([]entity.InAppIntent(nil), c.inApp...)
}

func (c *Context) actorUnitName(ctx context.Context) (string, error) {
	return c.Directory.OrganisationUnitName(ctx, c.Actor.OrganisationUnitID)
}

// innovators returns the owner and active collaborators except the actor.
func (c *Context) innovators(ctx context.Context, innovationID string) ([]entity.Recipient, error) {
	list, err := c.Directory.InnovationOwnerAndActiveCollaborators(ctx, innovationID)
	if err != nil {
		return nil, err
	}
	return c.ExcludeActor(list), nil
}
