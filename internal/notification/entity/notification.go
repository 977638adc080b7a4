package entity

import (
	"time"

	"github.com/shandysiswandi/notifyhub/internal/pkg/valueobject"
)

// Notification is immutable once created.
type Notification struct {
	ID            int64
	ContextType   ContextType
	ContextDetail TemplateID
	ContextID     string
	InnovationID  string
	Params        valueobject.JSONMap
	CreatedBy     string
	CreatedAt     time.Time
	// DispatchKey identifies the in-app intent of one event, so a
	// redelivered event does not store it twice. Empty disables the check.
	DispatchKey string
}

// NotificationUser carries the per recipient read and delete state of a
// Notification.
type NotificationUser struct {
	ID             int64
	NotificationID int64
	UserRoleID     string
	ReadAt         *time.Time
	DeletedAt      *time.Time
	CreatedBy      string
}

type InboxFilter struct {
	RoleID string
	Status InboxStatus
	Limit  int32
	Offset int32
}

type InboxItem struct {
	ID            int64
	InnovationID  string
	ContextType   ContextType
	ContextDetail TemplateID
	ContextID     string
	Params        valueobject.JSONMap
	ReadAt        *time.Time
	CreatedAt     time.Time
}

type InboxCounter struct {
	ContextType ContextType
	Unread      int64
}
