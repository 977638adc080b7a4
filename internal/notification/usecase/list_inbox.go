package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
)

type ListInboxInput struct {
	Status string `validate:"omitempty,oneof=all unread read"`
	Limit  int32  `validate:"omitempty,gte=1,lte=100"`
	Offset int32  `validate:"omitempty,gte=0"`
}

func (s *Usecase) ListInbox(ctx context.Context, in ListInboxInput) (_ []entity.InboxItem, err error) {
	ctx, span := s.startSpan(ctx, "ListInbox")
	defer span.End()

	clm, err := s.requireAuth(ctx, objectInbox, actionRead)
	if err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = string(entity.InboxStatusAll)
	}
	if in.Limit == 0 {
		in.Limit = 20
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	items, err := s.repoDB.ListInbox(ctx, entity.InboxFilter{
		RoleID: clm.RoleID,
		Status: entity.InboxStatus(in.Status),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list inbox", "role_id", clm.RoleID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return items, nil
}

// InboxCounters returns the unread count per context type. Context types
// without unread notifications are reported with zero.
func (s *Usecase) InboxCounters(ctx context.Context) (_ []entity.InboxCounter, err error) {
	ctx, span := s.startSpan(ctx, "InboxCounters")
	defer span.End()

	clm, err := s.requireAuth(ctx, objectInbox, actionRead)
	if err != nil {
		return nil, err
	}

	counters, err := s.repoDB.CountUnreadInbox(ctx, clm.RoleID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count unread inbox", "role_id", clm.RoleID, "error", err)
		return nil, goerror.NewServer(err)
	}

	unread := make(map[entity.ContextType]int64, len(counters))
	for _, c := range counters {
		unread[c.ContextType] += c.Unread
	}

	out := make([]entity.InboxCounter, 0, len(entity.ContextTypes()))
	for _, ct := range entity.ContextTypes() {
		out = append(out, entity.InboxCounter{ContextType: ct, Unread: unread[ct]})
	}

	return out, nil
}
