package inbound

import (
	"time"

	"github.com/shandysiswandi/notifyhub/internal/pkg/valueobject"
)

type NotificationResponse struct {
	ID            int64               `json:"id"`
	InnovationID  string              `json:"innovation_id"`
	ContextType   string              `json:"context_type"`
	ContextDetail string              `json:"context_detail"`
	ContextID     string              `json:"context_id"`
	Params        valueobject.JSONMap `json:"params" swaggertype:"object"`
	ReadAt        *time.Time          `json:"read_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

type InboxCounterResponse struct {
	ContextType string `json:"context_type"`
	Unread      int64  `json:"unread"`
}

type InboxCountersResponse struct {
	Counters []InboxCounterResponse `json:"counters"`
	Total    int64                  `json:"total"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type PreferenceResponse struct {
	Category string `json:"category"`
	Setting  string `json:"setting"`
}

type PreferencesResponse struct {
	Preferences []PreferenceResponse `json:"preferences"`
}

type PreferenceRequest struct {
	Category string `json:"category"`
	Setting  string `json:"setting"`
}

type PreferencesUpdateRequest struct {
	Preferences []PreferenceRequest `json:"preferences"`
}

type DigestCandidateResponse struct {
	RoleID     string `json:"role_id"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	IdentityID string `json:"identity_id"`
}

type DigestCandidatesResponse struct {
	Category   string                    `json:"category"`
	Candidates []DigestCandidateResponse `json:"candidates"`
}
