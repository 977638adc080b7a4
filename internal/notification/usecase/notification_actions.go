package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
)

type MarkInboxReadInput struct {
	ID int64 `validate:"required,gt=0"`
}

// MarkInboxRead sets readAt once. Marking an already read notification
// succeeds and keeps the first timestamp.
func (s *Usecase) MarkInboxRead(ctx context.Context, in MarkInboxReadInput) error {
	ctx, span := s.startSpan(ctx, "MarkInboxRead")
	defer span.End()

	clm, err := s.requireAuth(ctx, objectInbox, actionWrite)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	found, err := s.repoDB.MarkInboxRead(ctx, clm.RoleID, in.ID, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark inbox read", "role_id", clm.RoleID, "notification_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !found {
		return goerror.NewBusiness("inbox notification not found", goerror.CodeNotFound)
	}

	return nil
}

func (s *Usecase) MarkAllInboxRead(ctx context.Context) (int64, error) {
	ctx, span := s.startSpan(ctx, "MarkAllInboxRead")
	defer span.End()

	clm, err := s.requireAuth(ctx, objectInbox, actionWrite)
	if err != nil {
		return 0, err
	}

	n, err := s.repoDB.MarkInboxReadAll(ctx, clm.RoleID, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo mark all inbox read", "role_id", clm.RoleID, "error", err)
		return 0, goerror.NewServer(err)
	}

	return n, nil
}

type DeleteInboxInput struct {
	ID int64 `validate:"required,gt=0"`
}

// DeleteInbox soft deletes the caller's copy only. The Notification and the
// other recipients' copies stay.
func (s *Usecase) DeleteInbox(ctx context.Context, in DeleteInboxInput) error {
	ctx, span := s.startSpan(ctx, "DeleteInbox")
	defer span.End()

	clm, err := s.requireAuth(ctx, objectInbox, actionWrite)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	deleted, err := s.repoDB.SoftDeleteInbox(ctx, clm.RoleID, in.ID, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo delete inbox notification", "role_id", clm.RoleID, "notification_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !deleted {
		return goerror.NewBusiness("inbox notification not found", goerror.CodeNotFound)
	}

	return nil
}
