package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/valueobject"
)

// StreamEvent represents an in-app notification pushed over SSE.
type StreamEvent struct {
	ID            int64               `json:"id"`
	InnovationID  string              `json:"innovation_id"`
	ContextType   entity.ContextType  `json:"context_type"`
	ContextDetail entity.TemplateID   `json:"context_detail"`
	ContextID     string              `json:"context_id"`
	Params        valueobject.JSONMap `json:"params"`
	CreatedAt     time.Time           `json:"created_at"`
}

type subscriber struct {
	ch     chan StreamEvent
	closed atomic.Bool
}

// StreamNotifications subscribes the caller's role to new in-app
// notifications. The channel closes when ctx is done.
func (s *Usecase) StreamNotifications(ctx context.Context) (<-chan StreamEvent, error) {
	clm, err := s.requireAuth(ctx, objectInbox, actionRead)
	if err != nil {
		return nil, err
	}

	return s.subscribe(ctx, clm.RoleID), nil
}

func (s *Usecase) subscribe(ctx context.Context, roleID string) <-chan StreamEvent {
	sub := &subscriber{ch: make(chan StreamEvent, 10)}

	s.streamMu.Lock()
	if s.streams[roleID] == nil {
		s.streams[roleID] = make(map[*subscriber]struct{})
	}
	s.streams[roleID][sub] = struct{}{}
	s.streamMu.Unlock()

	go func() {
		<-ctx.Done()
		s.streamMu.Lock()
		if subs := s.streams[roleID]; subs != nil {
			delete(subs, sub)
			if len(subs) == 0 {
				delete(s.streams, roleID)
			}
		}
		sub.closed.Store(true)
		s.streamMu.Unlock()
		close(sub.ch)
	}()

	return sub.ch
}

// publishNotification never blocks: a full subscriber misses the event and
// catches up through the inbox.
func (s *Usecase) publishNotification(roleID string, evt StreamEvent) {
	s.streamMu.RLock()
	defer s.streamMu.RUnlock()

	for sub := range s.streams[roleID] {
		if sub.closed.Load() {
			continue
		}

		select {
		case sub.ch <- evt:
		default:
		}
	}
}

func (s *Usecase) buildStreamEvent(n entity.Notification) StreamEvent {
	return StreamEvent{
		ID:            n.ID,
		InnovationID:  n.InnovationID,
		ContextType:   n.ContextType,
		ContextDetail: n.ContextDetail,
		ContextID:     n.ContextID,
		Params:        n.Params,
		CreatedAt:     n.CreatedAt,
	}
}
