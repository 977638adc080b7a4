package handler

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

// supportStatusTemplate maps a support status to the template sent to the
// innovators. ok is false for statuses that notify nobody.
func supportStatusTemplate(status entity.SupportStatus) (tpl entity.TemplateID, ok bool, err error) {
	switch status {
	case entity.SupportStatusEngaging:
		return entity.TplST01SupportStatusToEngaging, true, nil
	case entity.SupportStatusWaiting:
		return entity.TplST03SupportStatusToWaiting, true, nil
	case entity.SupportStatusUnsuitable, entity.SupportStatusClosed:
		return entity.TplST02SupportStatusToOther, true, nil
	case entity.SupportStatusSuggested, entity.SupportStatusUnassigned:
		return "", false, nil
	default:
		return "", false, entity.NotImplemented(entity.EventSupportStatusUpdate, status)
	}
}

func supportStatusUpdate(ctx context.Context, hc *Context, p *entity.SupportStatusUpdatePayload) error {
	tpl, ok, err := supportStatusTemplate(p.Status)
	if err != nil || !ok {
		return err
	}

	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	innovators, err := hc.innovators(ctx, innovation.ID)
	if err != nil {
		return err
	}

	unit, err := hc.actorUnitName(ctx)
	if err != nil {
		return err
	}

	hc.AddEmails(tpl, entity.CategorySupport, innovators, Static(map[string]string{
		"innovation_name": innovation.Name,
		"unit_name":       hc.Labels.UnitName(unit),
		"status":          hc.Labels.SupportStatus(p.Status),
		"message":         p.Message,
		"message_url":     hc.URL.Thread(entity.RoleInnovator, innovation.ID, p.ThreadID),
	}))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeSupport,
		Detail: tpl,
		ID:     p.SupportID,
	}, innovators, map[string]any{
		"innovation_name": innovation.Name,
		"unit_name":       unit,
		"status":          string(p.Status),
		"thread_id":       p.ThreadID,
	})

	return nil
}

func supportNewAssignedAccessors(ctx context.Context, hc *Context, p *entity.SupportNewAssignedAccessorsPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	unit, err := hc.actorUnitName(ctx)
	if err != nil {
		return err
	}

	added, err := hc.unitAccessors(ctx, p.NewAssignedAccessorsIDs)
	if err != nil {
		return err
	}
	removed, err := hc.unitAccessors(ctx, p.RemovedAssignedAccessorsIDs)
	if err != nil {
		return err
	}

	inAppParams := map[string]any{"innovation_name": innovation.Name, "unit_name": unit}

	if len(added) > 0 {
		hc.AddEmails(entity.TplST04SupportNewAssignedAccessors, entity.CategorySupport, added, func(r entity.Recipient) map[string]string {
			return map[string]string{
				"innovation_name": innovation.Name,
				"unit_name":       hc.Labels.UnitName(unit),
				"message":         p.Message,
				"message_url":     hc.URL.Thread(r.Role, innovation.ID, p.ThreadID),
			}
		})
		hc.AddInApp(innovation.ID, entity.InAppContext{
			Type:   entity.ContextTypeSupport,
			Detail: entity.TplST04SupportNewAssignedAccessors,
			ID:     p.SupportID,
		}, added, inAppParams)
	}

	if len(removed) > 0 {
		hc.AddEmails(entity.TplST05SupportAccessorRemoved, entity.CategorySupport, removed, Static(map[string]string{
			"innovation_name": innovation.Name,
			"unit_name":       hc.Labels.UnitName(unit),
		}))
		hc.AddInApp(innovation.ID, entity.InAppContext{
			Type:   entity.ContextTypeSupport,
			Detail: entity.TplST05SupportAccessorRemoved,
			ID:     p.SupportID,
		}, removed, inAppParams)
	}

	return nil
}

// unitAccessors resolves accessor roles of userIDs, restricted to the
// actor's unit when the actor has one.
func (c *Context) unitAccessors(ctx context.Context, userIDs []string) ([]entity.Recipient, error) {
	list, err := c.Directory.UserRecipients(ctx, userIDs, entity.RoleAccessor, entity.RoleQualifyingAccessor)
	if err != nil {
		return nil, err
	}
	if unit := c.Actor.OrganisationUnitID; unit != "" {
		list = lo.Filter(list, func(r entity.Recipient, _ int) bool { return r.OrganisationUnitID == unit })
	}
	return c.ExcludeActor(list), nil
}

// idleSupport reminds assigned accessors of supports without recent
// activity. A support whose owner cannot be resolved is logged and skipped
// so the other reminders still go out.
func idleSupport(ctx context.Context, hc *Context, _ *entity.IdleSupportPayload) error {
	supports, err := hc.Directory.IdleSupports(ctx)
	if err != nil {
		return err
	}
	if len(supports) == 0 {
		return nil
	}

	owners, err := hc.Directory.UsersIdentityInfo(ctx, lo.Map(supports, func(s entity.IdleSupport, _ int) string {
		return s.OwnerIdentityID
	}))
	if err != nil {
		return err
	}

	for _, s := range supports {
		owner, ok := owners[s.OwnerIdentityID]
		if !ok {
			slog.WarnContext(ctx, "owner info not found for idle support notification",
				"support_id", s.SupportID,
				"innovation_id", s.InnovationID,
				"owner_identity_id", s.OwnerIdentityID,
			)
			continue
		}

		accessors := hc.ExcludeActor(s.Accessors)
		if len(accessors) == 0 {
			continue
		}

		hc.AddEmails(entity.TplAU01IdleSupportToAccessor, entity.CategorySupport, accessors, func(r entity.Recipient) map[string]string {
			return map[string]string{
				"innovation_name": s.InnovationName,
				"innovator_name":  owner.DisplayName,
				"support_url":     hc.URL.Innovation(r.Role, s.InnovationID, "support", s.SupportID),
			}
		})
		hc.AddInApp(s.InnovationID, entity.InAppContext{
			Type:   entity.ContextTypeAutomatic,
			Detail: entity.TplAU01IdleSupportToAccessor,
			ID:     s.SupportID,
		}, accessors, map[string]any{"innovation_name": s.InnovationName})
	}

	return nil
}
