package handler

import (
	"context"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

func exportRequestSubmitted(ctx context.Context, hc *Context, p *entity.ExportRequestSubmittedPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	request, err := hc.Directory.ExportRequest(ctx, p.RequestID)
	if err != nil {
		return err
	}

	unit, err := hc.actorUnitName(ctx)
	if err != nil {
		return err
	}

	innovators, err := hc.innovators(ctx, innovation.ID)
	if err != nil {
		return err
	}

	hc.AddEmails(entity.TplRE01ExportRequestSubmitted, entity.CategoryAction, innovators, Static(map[string]string{
		"innovation_name": innovation.Name,
		"unit_name":       hc.Labels.UnitName(unit),
		"request_url":     hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "record", "export-requests", request.ID),
	}))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeExportRequest,
		Detail: entity.TplRE01ExportRequestSubmitted,
		ID:     request.ID,
	}, innovators, map[string]any{"innovation_name": innovation.Name, "unit_name": unit})

	return nil
}

func exportRequestFeedback(ctx context.Context, hc *Context, p *entity.ExportRequestFeedbackPayload) error {
	request, err := hc.Directory.ExportRequest(ctx, p.RequestID)
	if err != nil {
		return err
	}

	var tpl entity.TemplateID
	switch request.Status {
	case entity.ExportRequestStatusApproved:
		tpl = entity.TplRE02ExportRequestApproved
	case entity.ExportRequestStatusRejected:
		tpl = entity.TplRE03ExportRequestRejected
	case entity.ExportRequestStatusPending, entity.ExportRequestStatusCancelled:
		return nil
	default:
		return entity.NotImplemented(hc.Event, request.Status)
	}

	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	requesters, err := hc.Directory.RoleRecipients(ctx, []string{request.CreatedByRoleID})
	if err != nil {
		return err
	}
	requesters = hc.ExcludeActor(requesters)

	hc.AddEmails(tpl, entity.CategoryAction, requesters, func(r entity.Recipient) map[string]string {
		return map[string]string{
			"innovation_name": innovation.Name,
			"reject_reason":   request.RejectReason,
			"request_url":     hc.URL.Innovation(r.Role, innovation.ID, "record", "export-requests", request.ID),
		}
	})
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeExportRequest,
		Detail: tpl,
		ID:     request.ID,
	}, requesters, map[string]any{"innovation_name": innovation.Name, "status": string(request.Status)})

	return nil
}
