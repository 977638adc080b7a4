package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/notification/handler"
	"github.com/shandysiswandi/notifyhub/internal/pkg/authz"
	"github.com/shandysiswandi/notifyhub/internal/pkg/clock"
	"github.com/shandysiswandi/notifyhub/internal/pkg/config"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"github.com/shandysiswandi/notifyhub/internal/pkg/uid"
	"github.com/shandysiswandi/notifyhub/internal/pkg/validator"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	SaveInAppNotification(ctx context.Context, n entity.Notification, users []entity.NotificationUser) (int64, bool, error)

	ListInbox(ctx context.Context, filter entity.InboxFilter) ([]entity.InboxItem, error)
	CountUnreadInbox(ctx context.Context, roleID string) ([]entity.InboxCounter, error)
	MarkInboxRead(ctx context.Context, roleID string, notificationID int64, at time.Time) (bool, error)
	MarkInboxReadAll(ctx context.Context, roleID string, at time.Time) (int64, error)
	SoftDeleteInbox(ctx context.Context, roleID string, notificationID int64, at time.Time) (bool, error)

	ListPreferences(ctx context.Context, roleID string) ([]entity.Preference, error)
	UpsertPreferences(ctx context.Context, roleID string, prefs []entity.Preference) error
}

type repoMail interface {
	Send(ctx context.Context, templateID entity.TemplateID, to string, params map[string]string) error
}

type identityProvider interface {
	GetUserInfo(ctx context.Context, identityID string) (*entity.IdentityInfo, error)
}

type digestResolver interface {
	DigestCandidates(ctx context.Context, category entity.Category) ([]entity.Recipient, error)
}

type registry interface {
	Lookup(event entity.EventType) (handler.Definition, error)
}

type Dependency struct {
	RepoDB     repoDB
	RepoMail   repoMail
	Identity   identityProvider
	Registry   registry
	Digest     digestResolver
	Services   handler.Services
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Enforcer   authz.Enforcer
	Instrument instrument.Instrumentation
}

type Usecase struct {
	repoDB    repoDB
	repoMail  repoMail
	identity  identityProvider
	registry  registry
	digest    digestResolver
	services  handler.Services
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	enforcer  authz.Enforcer
	ins       instrument.Instrumentation

	eventsProcessed metric.Int64Counter
	emailsSent      metric.Int64Counter
	inAppSaved      metric.Int64Counter

	streamMu sync.RWMutex
	streams  map[string]map[*subscriber]struct{}
}

func NewNotification(dep Dependency) *Usecase {
	meter := dep.Instrument.Meter("notification.usecase")
	eventsProcessed, _ := meter.Int64Counter("notification.events.processed")
	emailsSent, _ := meter.Int64Counter("notification.emails.sent")
	inAppSaved, _ := meter.Int64Counter("notification.inapp.saved")

	return &Usecase{
		repoDB:          dep.RepoDB,
		repoMail:        dep.RepoMail,
		identity:        dep.Identity,
		registry:        dep.Registry,
		digest:          dep.Digest,
		services:        dep.Services,
		cfg:             dep.Config,
		uid:             dep.UID,
		clock:           dep.Clock,
		validator:       dep.Validator,
		enforcer:        dep.Enforcer,
		ins:             dep.Instrument,
		eventsProcessed: eventsProcessed,
		emailsSent:      emailsSent,
		inAppSaved:      inAppSaved,
		streams:         make(map[string]map[*subscriber]struct{}),
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
