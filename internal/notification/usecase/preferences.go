package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/notification/preference"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
)

// ListPreferences returns one effective setting per category for the
// caller's role, filling unset categories with the default.
func (s *Usecase) ListPreferences(ctx context.Context) (_ []entity.Preference, err error) {
	ctx, span := s.startSpan(ctx, "ListPreferences")
	defer span.End()

	clm, err := s.requireAuth(ctx, objectPreferences, actionRead)
	if err != nil {
		return nil, err
	}

	stored, err := s.repoDB.ListPreferences(ctx, clm.RoleID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list notification preferences", "role_id", clm.RoleID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return preference.Effective(clm.RoleID, stored), nil
}

type UpdatePreferencesInput struct {
	Preferences []UpdatePreferenceInput `validate:"required,min=1,dive"`
}

type UpdatePreferenceInput struct {
	Category string `validate:"required"`
	Setting  string `validate:"required"`
}

// UpdatePreferences upserts the given categories. A category sent twice
// keeps the last value.
func (s *Usecase) UpdatePreferences(ctx context.Context, in UpdatePreferencesInput) error {
	ctx, span := s.startSpan(ctx, "UpdatePreferences")
	defer span.End()

	clm, err := s.requireAuth(ctx, objectPreferences, actionWrite)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	byCategory := make(map[entity.Category]entity.Setting, len(in.Preferences))
	order := make([]entity.Category, 0, len(in.Preferences))
	for _, p := range in.Preferences {
		category := entity.CategoryFromString(p.Category)
		if category == entity.CategoryNone {
			return goerror.NewBusiness("category is not supported: "+p.Category, goerror.CodeInvalidFormat)
		}
		setting, ok := entity.SettingFromString(p.Setting)
		if !ok {
			return goerror.NewBusiness("setting is not supported: "+p.Setting, goerror.CodeInvalidFormat)
		}
		if _, seen := byCategory[category]; !seen {
			order = append(order, category)
		}
		byCategory[category] = setting
	}

	prefs := make([]entity.Preference, 0, len(order))
	for _, c := range order {
		prefs = append(prefs, entity.Preference{RoleID: clm.RoleID, Category: c, Setting: byCategory[c]})
	}

	if err := s.repoDB.UpsertPreferences(ctx, clm.RoleID, prefs); err != nil {
		slog.ErrorContext(ctx, "failed to repo upsert notification preferences", "role_id", clm.RoleID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
