package handler

import (
	"context"
	"errors"
	"maps"

	"github.com/samber/lo"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"golang.org/x/sync/errgroup"
)

// innovationSubmitted confirms the submission to the innovators, the
// submitter included, and asks the assessment team to pick it up.
func innovationSubmitted(ctx context.Context, hc *Context, p *entity.InnovationSubmittedPayload) error {
	var (
		innovation entity.Innovation
		innovators []entity.Recipient
		assessment []entity.Recipient
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		innovation, err = hc.Directory.Innovation(gctx, p.InnovationID, false)
		return err
	})
	g.Go(func() (err error) {
		innovators, err = hc.Directory.InnovationOwnerAndActiveCollaborators(gctx, p.InnovationID)
		return err
	})
	g.Go(func() (err error) {
		assessment, err = hc.Directory.AssessmentUsers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	assessmentTpl := entity.TplInnovationSubmittedToAssessment
	if p.IsReassessment {
		assessmentTpl = entity.TplReassessmentSubmittedToAssess
	}

	hc.AddEmails(entity.TplInnovationSubmittedToInnovator, entity.CategoryAction, innovators, Static(map[string]string{
		"innovation_name": innovation.Name,
		"innovation_url":  hc.URL.Innovation(entity.RoleInnovator, innovation.ID),
	}))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeInnovationManagement,
		Detail: entity.TplInnovationSubmittedToInnovator,
		ID:     innovation.ID,
	}, innovators, map[string]any{"innovation_name": innovation.Name})

	assessment = hc.ExcludeActor(assessment)
	hc.AddEmails(assessmentTpl, entity.CategoryAction, assessment, Static(map[string]string{
		"innovation_name": innovation.Name,
		"innovation_url":  hc.URL.Innovation(entity.RoleAssessment, innovation.ID, "overview"),
	}))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeNeedsAssessment,
		Detail: assessmentTpl,
		ID:     innovation.ID,
	}, assessment, map[string]any{"innovation_name": innovation.Name})

	return nil
}

// innovationWithdrawn tolerates an already soft deleted innovation and
// falls back to the name carried by the event.
func innovationWithdrawn(ctx context.Context, hc *Context, p *entity.InnovationWithdrawnPayload) error {
	name := p.Innovation.Name
	innovation, err := hc.Directory.Innovation(ctx, p.Innovation.ID, true)
	switch {
	case err == nil && innovation.Name != "":
		name = innovation.Name
	case err != nil && !errors.Is(err, goerror.ErrNotFound):
		return err
	}

	accessors, err := hc.affectedAccessors(ctx, p.Innovation.AffectedUsers)
	if err != nil {
		return err
	}
	if len(accessors) == 0 {
		return nil
	}

	hc.AddEmails(entity.TplWI01InnovationWithdrawn, entity.CategorySupport, accessors, Static(map[string]string{
		"innovation_name": name,
	}))
	hc.AddInApp(p.Innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeInnovationManagement,
		Detail: entity.TplWI01InnovationWithdrawn,
		ID:     p.Innovation.ID,
	}, accessors, map[string]any{"innovation_name": name})

	return nil
}

func innovationStopSharing(ctx context.Context, hc *Context, p *entity.InnovationStopSharingPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	organisation, err := hc.Directory.OrganisationName(ctx, p.OrganisationID)
	if err != nil {
		return err
	}

	accessors, err := hc.affectedAccessors(ctx, p.AffectedUsers)
	if err != nil {
		return err
	}

	innovators, err := hc.innovators(ctx, innovation.ID)
	if err != nil {
		return err
	}

	params := map[string]string{
		"innovation_name":   innovation.Name,
		"organisation_name": organisation,
		"message":           p.Message,
	}
	inAppParams := map[string]any{
		"innovation_name":   innovation.Name,
		"organisation_name": organisation,
	}

	if len(accessors) > 0 {
		hc.AddEmails(entity.TplSH01StoppedSharingToAccessor, entity.CategorySupport, accessors, Static(params))
		hc.AddInApp(innovation.ID, entity.InAppContext{
			Type:   entity.ContextTypeSupport,
			Detail: entity.TplSH01StoppedSharingToAccessor,
			ID:     innovation.ID,
		}, accessors, inAppParams)
	}

	hc.AddEmails(entity.TplSH02StoppedSharingToInnovator, entity.CategorySupport, innovators, func(entity.Recipient) map[string]string {
		out := map[string]string{"innovation_url": hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "support")}
		maps.Copy(out, params)
		return out
	})
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeSupport,
		Detail: entity.TplSH02StoppedSharingToInnovator,
		ID:     innovation.ID,
	}, innovators, inAppParams)

	return nil
}

// affectedAccessors resolves the accessor roles listed by an event, each
// restricted to the unit it was affected in.
func (c *Context) affectedAccessors(ctx context.Context, users []entity.AffectedUser) ([]entity.Recipient, error) {
	affected := lo.Filter(users, func(u entity.AffectedUser, _ int) bool { return u.Role.IsAccessor() })
	if len(affected) == 0 {
		return []entity.Recipient{}, nil
	}

	list, err := c.Directory.UserRecipients(ctx,
		lo.Map(affected, func(u entity.AffectedUser, _ int) string { return u.UserID }),
		entity.RoleAccessor, entity.RoleQualifyingAccessor,
	)
	if err != nil {
		return nil, err
	}

	list = lo.Filter(list, func(r entity.Recipient, _ int) bool {
		return lo.ContainsBy(affected, func(u entity.AffectedUser) bool {
			return u.UserID == r.UserID && (u.OrganisationUnitID == "" || u.OrganisationUnitID == r.OrganisationUnitID)
		})
	})
	return c.ExcludeActor(list), nil
}
