package inbound

import (
	"context"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/notification/usecase"
)

type ucConsumer interface {
	RunHandler(ctx context.Context, in usecase.RunHandlerInput) error
}

type ucStream interface {
	StreamNotifications(ctx context.Context) (<-chan usecase.StreamEvent, error)
}

type uc interface {
	ucConsumer
	ucStream

	ListInbox(ctx context.Context, in usecase.ListInboxInput) ([]entity.InboxItem, error)
	InboxCounters(ctx context.Context) ([]entity.InboxCounter, error)
	MarkInboxRead(ctx context.Context, in usecase.MarkInboxReadInput) error
	MarkAllInboxRead(ctx context.Context) (int64, error)
	DeleteInbox(ctx context.Context, in usecase.DeleteInboxInput) error
	ListPreferences(ctx context.Context) ([]entity.Preference, error)
	UpdatePreferences(ctx context.Context, in usecase.UpdatePreferencesInput) error
	DigestCandidates(ctx context.Context, in usecase.DigestCandidatesInput) ([]entity.Recipient, error)
}
