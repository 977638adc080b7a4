// Package preference decides whether an email fires now, later in a digest
// or never, based on per role and per category settings.
package preference

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

// DefaultSetting applies to every (role, category) pair without a stored row.
const DefaultSetting = entity.SettingInstantly

type repoDB interface {
	ListDigestRecipients(ctx context.Context, category entity.Category) ([]entity.Recipient, error)
}

type Resolver struct {
	repo repoDB
	ins  instrument.Instrumentation
}

func NewResolver(repo repoDB, ins instrument.Instrumentation) *Resolver {
	return &Resolver{repo: repo, ins: ins}
}

// Setting returns the effective setting of r for category.
func Setting(category entity.Category, r entity.Recipient) entity.Setting {
	if s, ok := r.Preferences[category]; ok {
		return s
	}
	return DefaultSetting
}

// IsInstantly reports whether r wants emails of category as they happen.
// Mandatory emails have no category and are always instant.
func (s *Resolver) IsInstantly(category entity.Category, r entity.Recipient) bool {
	if category == entity.CategoryNone {
		return true
	}
	return Setting(category, r) == entity.SettingInstantly
}

// DigestCandidates lists recipients batching category into the daily digest.
func (s *Resolver) DigestCandidates(ctx context.Context, category entity.Category) ([]entity.Recipient, error) {
	ctx, span := s.ins.Tracer("notification.preference").Start(ctx, "DigestCandidates")
	defer span.End()

	if category == entity.CategoryNone {
		return nil, nil
	}

	list, err := s.repo.ListDigestRecipients(ctx, category)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		slog.ErrorContext(ctx, "failed to repo list digest recipients", "category", category, "error", err)
		return nil, err
	}

	return list, nil
}

// Effective fills every category missing from stored with DefaultSetting.
// The result follows entity.Categories order.
func Effective(roleID string, stored []entity.Preference) []entity.Preference {
	byCategory := make(map[entity.Category]entity.Setting, len(stored))
	for _, p := range stored {
		byCategory[p.Category] = p.Setting
	}

	out := make([]entity.Preference, 0, len(entity.Categories()))
	for _, c := range entity.Categories() {
		setting, ok := byCategory[c]
		if !ok {
			setting = DefaultSetting
		}
		out = append(out, entity.Preference{RoleID: roleID, Category: c, Setting: setting})
	}
	return out
}
