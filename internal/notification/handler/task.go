package handler

import (
	"context"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

func taskCreation(ctx context.Context, hc *Context, p *entity.TaskCreationPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	task, err := hc.Directory.Task(ctx, p.TaskID)
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

	hc.AddEmails(entity.TplTA01TaskCreationToInnovator, entity.CategoryAction, innovators, Static(map[string]string{
		"innovation_name": innovation.Name,
		"unit_name":       hc.Labels.UnitName(unit),
		"task_id":         task.DisplayID,
		"task_url":        hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "tasks", task.ID),
	}))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeTask,
		Detail: entity.TplTA01TaskCreationToInnovator,
		ID:     task.ID,
	}, innovators, map[string]any{
		"innovation_name": innovation.Name,
		"unit_name":       unit,
		"task_id":         task.DisplayID,
	})

	return nil
}

// taskUpdate branches on who acted: an innovator answering a task notifies
// its creator and the other innovators, a support or assessment user
// cancelling or reopening it notifies the innovators.
func taskUpdate(ctx context.Context, hc *Context, p *entity.TaskUpdatePayload) error {
	switch {
	case hc.Actor.Role == entity.RoleInnovator:
		switch p.Status {
		case entity.TaskStatusDone, entity.TaskStatusDeclined:
			return taskResponded(ctx, hc, p)
		case entity.TaskStatusOpen, entity.TaskStatusCancelled:
			return nil
		default:
			return entity.NotImplemented(hc.Event, p.Status)
		}

	case hc.Actor.Role.IsAccessor() || hc.Actor.Role == entity.RoleAssessment:
		switch p.Status {
		case entity.TaskStatusCancelled:
			return taskChangedByAccessor(ctx, hc, p, entity.TplTA04TaskCancelledToInnovator)
		case entity.TaskStatusOpen:
			return taskChangedByAccessor(ctx, hc, p, entity.TplTA05TaskReopenedToInnovator)
		case entity.TaskStatusDone, entity.TaskStatusDeclined:
			return nil
		default:
			return entity.NotImplemented(hc.Event, p.Status)
		}

	default:
		return nil
	}
}

func taskResponded(ctx context.Context, hc *Context, p *entity.TaskUpdatePayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	task, err := hc.Directory.Task(ctx, p.TaskID)
	if err != nil {
		return err
	}

	creators, err := hc.Directory.RoleRecipients(ctx, []string{task.CreatedByRoleID})
	if err != nil {
		return err
	}
	creators = hc.ExcludeActor(creators)

	innovators, err := hc.innovators(ctx, innovation.ID)
	if err != nil {
		return err
	}

	status := hc.Labels.TaskStatus(p.Status)
	inAppParams := map[string]any{
		"innovation_name": innovation.Name,
		"task_id":         task.DisplayID,
		"status":          string(p.Status),
	}

	hc.AddEmails(entity.TplTA02TaskRespondedToAccessor, entity.CategoryAction, creators, func(r entity.Recipient) map[string]string {
		return map[string]string{
			"innovation_name": innovation.Name,
			"task_id":         task.DisplayID,
			"task_status":     status,
			"message":         p.Message,
			"task_url":        hc.URL.Innovation(r.Role, innovation.ID, "tasks", task.ID),
		}
	})
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeTask,
		Detail: entity.TplTA02TaskRespondedToAccessor,
		ID:     task.ID,
	}, creators, inAppParams)

	if len(innovators) == 0 {
		return nil
	}
	hc.AddEmails(entity.TplTA03TaskRespondedToInnovators, entity.CategoryAction, innovators, Static(map[string]string{
		"innovation_name": innovation.Name,
		"task_id":         task.DisplayID,
		"task_status":     status,
		"task_url":        hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "tasks", task.ID),
	}))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeTask,
		Detail: entity.TplTA03TaskRespondedToInnovators,
		ID:     task.ID,
	}, innovators, inAppParams)

	return nil
}

func taskChangedByAccessor(ctx context.Context, hc *Context, p *entity.TaskUpdatePayload, tpl entity.TemplateID) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	task, err := hc.Directory.Task(ctx, p.TaskID)
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

	hc.AddEmails(tpl, entity.CategoryAction, innovators, Static(map[string]string{
		"innovation_name": innovation.Name,
		"unit_name":       hc.Labels.UnitName(unit),
		"task_id":         task.DisplayID,
		"message":         p.Message,
		"task_url":        hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "tasks", task.ID),
	}))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeTask,
		Detail: tpl,
		ID:     task.ID,
	}, innovators, map[string]any{
		"innovation_name": innovation.Name,
		"unit_name":       unit,
		"task_id":         task.DisplayID,
	})

	return nil
}
