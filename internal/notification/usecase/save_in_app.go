package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/valueobject"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type SaveInAppInput struct {
	Actor        entity.ActorRef
	InnovationID string
	Context      entity.InAppContext
	RoleIDs      []string
	Params       valueobject.JSONMap
	DispatchKey  string
}

// SaveInAppNotification stores one Notification and one NotificationUser
// per distinct role id in a single transaction. With no role ids the
// Notification is still stored. Open streams of the recipients are fed
// only after the commit. A DispatchKey that was already stored returns the
// existing id without writing or streaming again.
func (s *Usecase) SaveInAppNotification(ctx context.Context, in SaveInAppInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "SaveInAppNotification")
	defer span.End()

	params := in.Params.Clone()
	if params == nil {
		params = valueobject.JSONMap{}
	}

	n := entity.Notification{
		ID:            s.uid.Generate(),
		ContextType:   in.Context.Type,
		ContextDetail: in.Context.Detail,
		ContextID:     in.Context.ID,
		InnovationID:  in.InnovationID,
		Params:        params,
		CreatedBy:     in.Actor.UserID,
		CreatedAt:     s.clock.Now(),
		DispatchKey:   in.DispatchKey,
	}

	roleIDs := lo.Uniq(in.RoleIDs)
	users := make([]entity.NotificationUser, 0, len(roleIDs))
	for _, roleID := range roleIDs {
		users = append(users, entity.NotificationUser{
			ID:             s.uid.Generate(),
			NotificationID: n.ID,
			UserRoleID:     roleID,
			CreatedBy:      in.Actor.UserID,
		})
	}

	id, created, err := s.repoDB.SaveInAppNotification(ctx, n, users)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo save in-app notification",
			"context_type", n.ContextType, "context_detail", n.ContextDetail, "context_id", n.ContextID,
			"innovation_id", n.InnovationID, "recipients", len(users), "error", err)
		return 0, err
	}
	if !created {
		slog.InfoContext(ctx, "in-app notification already stored", "dispatch_key", n.DispatchKey, "notification_id", id)
		return id, nil
	}

	s.inAppSaved.Add(ctx, int64(len(users)), metric.WithAttributes(attribute.String("context_detail", string(n.ContextDetail))))

	for _, u := range users {
		s.publishNotification(u.UserRoleID, s.buildStreamEvent(n))
	}

	return n.ID, nil
}
