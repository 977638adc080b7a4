package handler

import (
	"context"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

func needsAssessmentStarted(ctx context.Context, hc *Context, p *entity.NeedsAssessmentStartedPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	innovators, err := hc.innovators(ctx, innovation.ID)
	if err != nil {
		return err
	}

	hc.AddEmails(entity.TplNA01NeedsAssessmentStarted, entity.CategoryMessage, innovators, Static(map[string]string{
		"innovation_name": innovation.Name,
		"message":         p.Message,
		"message_url":     hc.URL.Thread(entity.RoleInnovator, innovation.ID, p.ThreadID),
	}))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeNeedsAssessment,
		Detail: entity.TplNA01NeedsAssessmentStarted,
		ID:     p.AssessmentID,
	}, innovators, map[string]any{"innovation_name": innovation.Name, "thread_id": p.ThreadID})

	return nil
}

func needsAssessmentCompleted(ctx context.Context, hc *Context, p *entity.NeedsAssessmentCompletedPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	innovators, err := hc.innovators(ctx, innovation.ID)
	if err != nil {
		return err
	}

	hc.AddEmails(entity.TplNA02NeedsAssessmentCompleted, entity.CategoryAction, innovators, Static(map[string]string{
		"innovation_name":      innovation.Name,
		"needs_assessment_url": hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "assessments", p.AssessmentID),
		"data_sharing_url":     hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "support"),
	}))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeNeedsAssessment,
		Detail: entity.TplNA02NeedsAssessmentCompleted,
		ID:     p.AssessmentID,
	}, innovators, map[string]any{"innovation_name": innovation.Name})

	return nil
}

// organisationUnitsSuggestion is a no-op when the suggested units have no
// qualifying accessor.
func organisationUnitsSuggestion(ctx context.Context, hc *Context, p *entity.OrganisationUnitsSuggestionPayload) error {
	qas, err := hc.Directory.UnitQualifyingAccessors(ctx, p.UnitIDs)
	if err != nil {
		return err
	}
	qas = hc.ExcludeActor(qas)
	if len(qas) == 0 {
		return nil
	}

	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	unit, err := hc.actorUnitName(ctx)
	if err != nil {
		return err
	}

	hc.AddEmails(entity.TplOS01UnitsSuggestionToQA, entity.CategorySupport, qas, func(r entity.Recipient) map[string]string {
		return map[string]string{
			"innovation_name":   innovation.Name,
			"organisation_unit": hc.Labels.UnitName(unit),
			"comment":           p.Comment,
			"innovation_url":    hc.URL.Innovation(r.Role, innovation.ID, "overview"),
		}
	})
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeOrganisationSuggestions,
		Detail: entity.TplOS01UnitsSuggestionToQA,
		ID:     innovation.ID,
	}, qas, map[string]any{"innovation_name": innovation.Name, "organisation_unit": unit})

	return nil
}
