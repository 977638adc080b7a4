package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/notifyhub/internal/notification/handler"
	"github.com/shandysiswandi/notifyhub/internal/notification/inbound"
	"github.com/shandysiswandi/notifyhub/internal/notification/outbound/db"
	"github.com/shandysiswandi/notifyhub/internal/notification/outbound/email"
	"github.com/shandysiswandi/notifyhub/internal/notification/outbound/identity"
	"github.com/shandysiswandi/notifyhub/internal/notification/preference"
	"github.com/shandysiswandi/notifyhub/internal/notification/recipient"
	"github.com/shandysiswandi/notifyhub/internal/notification/usecase"
	"github.com/shandysiswandi/notifyhub/internal/pkg/authz"
	"github.com/shandysiswandi/notifyhub/internal/pkg/clock"
	"github.com/shandysiswandi/notifyhub/internal/pkg/config"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goroutine"
	"github.com/shandysiswandi/notifyhub/internal/pkg/idempotency"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"github.com/shandysiswandi/notifyhub/internal/pkg/mail"
	"github.com/shandysiswandi/notifyhub/internal/pkg/messaging"
	"github.com/shandysiswandi/notifyhub/internal/pkg/router"
	"github.com/shandysiswandi/notifyhub/internal/pkg/storage"
	"github.com/shandysiswandi/notifyhub/internal/pkg/uid"
	"github.com/shandysiswandi/notifyhub/internal/pkg/validator"
)

var ErrTemplatesBucketRequired = errors.New("notification: templates bucket is required")

type Dependency struct {
	Ctx         context.Context
	DBConn      *pgxpool.Pool
	Redis       redis.UniversalClient
	Messaging   messaging.Messaging
	Storage     storage.Storage
	Config      config.Config
	Instrument  instrument.Instrumentation
	UID         uid.NumberID
	UUID        uid.StringID
	Clock       clock.Clocker
	Goroutine   *goroutine.Manager
	Validator   validator.Validator
	Router      *router.Router
	Mail        mail.Mail
	Enforcer    authz.Enforcer
	Idempotency idempotency.Idempotency
}

func New(dep Dependency) error {
	ctx := dep.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	dbNotif := db.NewDB(dep.DBConn, dep.Instrument, time.Duration(dep.Config.GetInt("modules.notification.idle_support_days"))*24*time.Hour)
	if dep.Config.GetBool("modules.notification.migrate") {
		if err := dbNotif.Migrate(ctx); err != nil {
			return fmt.Errorf("notification: migrate: %w", err)
		}
	}

	bucket := dep.Config.GetString("modules.notification.templates.bucket")
	if bucket == "" {
		return ErrTemplatesBucketRequired
	}
	prefix := dep.Config.GetString("modules.notification.templates.prefix")
	if prefix == "" {
		prefix = "templates/"
	}
	catalog, err := email.LoadCatalog(ctx, dep.Storage, bucket, prefix)
	if err != nil {
		return fmt.Errorf("notification: %w", err)
	}

	repoMail := email.New(dep.Mail, catalog, dep.Config.GetString("mail.from"), dep.Config.GetMap("mail.headers"), dep.Instrument)

	idp := identity.New(identity.Config{
		BaseURL:    dep.Config.GetString("identity.base_url"),
		Token:      dep.Config.GetString("identity.token"),
		Timeout:    dep.Config.GetSecond("identity.timeout_seconds"),
		MaxRetries: uint64(max(dep.Config.GetInt("identity.max_retries"), 0)),
		Backoff:    time.Duration(dep.Config.GetInt("identity.backoff_ms")) * time.Millisecond,
		CacheTTL:   dep.Config.GetSecond("identity.cache_ttl_seconds"),
	}, dep.Redis, dep.Instrument)

	urls, err := handler.NewURL(dep.Config.GetString("app.web.base_url"))
	if err != nil {
		return fmt.Errorf("notification: app.web.base_url: %w", err)
	}
	labels, err := handler.NewLabels()
	if err != nil {
		return err
	}

	registry, err := handler.NewRegistry(catalog, handler.Definitions()...)
	if err != nil {
		return fmt.Errorf("notification: %w", err)
	}

	resolver := preference.NewResolver(dbNotif, dep.Instrument)
	uc := usecase.NewNotification(usecase.Dependency{
		RepoDB:   dbNotif,
		RepoMail: repoMail,
		Identity: idp,
		Digest:   resolver,
		Registry: registry,
		Services: handler.Services{
			Directory:   recipient.NewDirectory(dbNotif, idp, dep.Instrument),
			Preferences: resolver,
			URL:         urls,
			Labels:      labels,
		},
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Enforcer:   dep.Enforcer,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.Idempotency, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
