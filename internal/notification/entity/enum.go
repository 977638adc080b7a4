package entity

import "strings"

// EventType identifies a business occurrence the engine reacts to.
type EventType string

const (
	EventInnovationSubmitted         EventType = "INNOVATION_SUBMITTED"
	EventNeedsAssessmentStarted      EventType = "NEEDS_ASSESSMENT_STARTED"
	EventNeedsAssessmentCompleted    EventType = "NEEDS_ASSESSMENT_COMPLETED"
	EventOrganisationUnitsSuggestion EventType = "ORGANISATION_UNITS_SUGGESTION"
	EventSupportStatusUpdate         EventType = "SUPPORT_STATUS_UPDATE"
	EventSupportNewAssignedAccessors EventType = "SUPPORT_NEW_ASSIGNED_ACCESSORS"
	EventThreadCreation              EventType = "THREAD_CREATION"
	EventThreadAddFollowers          EventType = "THREAD_ADD_FOLLOWERS"
	EventThreadMessageCreation       EventType = "THREAD_MESSAGE_CREATION"
	EventCollaboratorInvite          EventType = "COLLABORATOR_INVITE"
	EventCollaboratorUpdate          EventType = "COLLABORATOR_UPDATE"
	EventTransferOwnershipCreation   EventType = "TRANSFER_OWNERSHIP_CREATION"
	EventInnovationWithdrawn         EventType = "INNOVATION_WITHDRAWN"
	EventInnovationStopSharing       EventType = "INNOVATION_STOP_SHARING"
	EventTaskCreation                EventType = "TASK_CREATION"
	EventTaskUpdate                  EventType = "TASK_UPDATE"
	EventAccountCreation             EventType = "ACCOUNT_CREATION"
	EventIdleSupport                 EventType = "IDLE_SUPPORT"
	EventExportRequestSubmitted      EventType = "EXPORT_REQUEST_SUBMITTED"
	EventExportRequestFeedback       EventType = "EXPORT_REQUEST_FEEDBACK"
)

// EventTypes lists every known event type. The handler registry refuses to
// start unless each of them has a definition.
func EventTypes() []EventType {
	return []EventType{
		EventInnovationSubmitted,
		EventNeedsAssessmentStarted,
		EventNeedsAssessmentCompleted,
		EventOrganisationUnitsSuggestion,
		EventSupportStatusUpdate,
		EventSupportNewAssignedAccessors,
		EventThreadCreation,
		EventThreadAddFollowers,
		EventThreadMessageCreation,
		EventCollaboratorInvite,
		EventCollaboratorUpdate,
		EventTransferOwnershipCreation,
		EventInnovationWithdrawn,
		EventInnovationStopSharing,
		EventTaskCreation,
		EventTaskUpdate,
		EventAccountCreation,
		EventIdleSupport,
		EventExportRequestSubmitted,
		EventExportRequestFeedback,
	}
}

func (e EventType) String() string {
	return string(e)
}

type Role string

const (
	RoleInnovator          Role = "INNOVATOR"
	RoleAccessor           Role = "ACCESSOR"
	RoleQualifyingAccessor Role = "QUALIFYING_ACCESSOR"
	RoleAssessment         Role = "ASSESSMENT"
	RoleAdmin              Role = "ADMIN"
)

// IsAccessor reports whether r belongs to a support organisation unit.
func (r Role) IsAccessor() bool {
	return r == RoleAccessor || r == RoleQualifyingAccessor
}

func (r Role) String() string {
	return string(r)
}

// Category scopes notification preferences. The empty category marks a
// mandatory email that bypasses preferences.
type Category string

const (
	CategoryNone    Category = ""
	CategoryAction  Category = "ACTION"
	CategorySupport Category = "SUPPORT"
	CategoryMessage Category = "MESSAGE"
)

func Categories() []Category {
	return []Category{CategoryAction, CategorySupport, CategoryMessage}
}

func CategoryFromString(raw string) Category {
	switch c := Category(strings.ToUpper(strings.TrimSpace(raw))); c {
	case CategoryAction, CategorySupport, CategoryMessage:
		return c
	default:
		return CategoryNone
	}
}

type Setting string

const (
	SettingNever     Setting = "NEVER"
	SettingInstantly Setting = "INSTANTLY"
	SettingDaily     Setting = "DAILY"
)

func SettingFromString(raw string) (Setting, bool) {
	switch s := Setting(strings.ToUpper(strings.TrimSpace(raw))); s {
	case SettingNever, SettingInstantly, SettingDaily:
		return s, true
	default:
		return "", false
	}
}

type SupportStatus string

const (
	SupportStatusSuggested  SupportStatus = "SUGGESTED"
	SupportStatusEngaging   SupportStatus = "ENGAGING"
	SupportStatusWaiting    SupportStatus = "WAITING"
	SupportStatusUnassigned SupportStatus = "UNASSIGNED"
	SupportStatusUnsuitable SupportStatus = "UNSUITABLE"
	SupportStatusClosed     SupportStatus = "CLOSED"
)

func SupportStatuses() []SupportStatus {
	return []SupportStatus{
		SupportStatusSuggested,
		SupportStatusEngaging,
		SupportStatusWaiting,
		SupportStatusUnassigned,
		SupportStatusUnsuitable,
		SupportStatusClosed,
	}
}

type CollaboratorStatus string

const (
	CollaboratorStatusInvited   CollaboratorStatus = "INVITED"
	CollaboratorStatusActive    CollaboratorStatus = "ACTIVE"
	CollaboratorStatusDeclined  CollaboratorStatus = "DECLINED"
	CollaboratorStatusCancelled CollaboratorStatus = "CANCELLED"
	CollaboratorStatusLeft      CollaboratorStatus = "LEFT"
	CollaboratorStatusRemoved   CollaboratorStatus = "REMOVED"
)

type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "OPEN"
	TaskStatusDone      TaskStatus = "DONE"
	TaskStatusDeclined  TaskStatus = "DECLINED"
	TaskStatusCancelled TaskStatus = "CANCELLED"
)

type ExportRequestStatus string

const (
	ExportRequestStatusPending   ExportRequestStatus = "PENDING"
	ExportRequestStatusApproved  ExportRequestStatus = "APPROVED"
	ExportRequestStatusRejected  ExportRequestStatus = "REJECTED"
	ExportRequestStatusCancelled ExportRequestStatus = "CANCELLED"
)

// ContextType groups in-app notifications in the inbox.
type ContextType string

const (
	ContextTypeInnovationManagement    ContextType = "INNOVATION_MANAGEMENT"
	ContextTypeNeedsAssessment         ContextType = "NEEDS_ASSESSMENT"
	ContextTypeOrganisationSuggestions ContextType = "ORGANISATION_SUGGESTIONS"
	ContextTypeSupport                 ContextType = "SUPPORT"
	ContextTypeThread                  ContextType = "THREAD"
	ContextTypeTask                    ContextType = "TASK"
	ContextTypeAutomatic               ContextType = "AUTOMATIC"
	ContextTypeExportRequest           ContextType = "EXPORT_REQUEST"
)

func ContextTypes() []ContextType {
	return []ContextType{
		ContextTypeInnovationManagement,
		ContextTypeNeedsAssessment,
		ContextTypeOrganisationSuggestions,
		ContextTypeSupport,
		ContextTypeThread,
		ContextTypeTask,
		ContextTypeAutomatic,
		ContextTypeExportRequest,
	}
}

type InboxStatus string

const (
	InboxStatusAll    InboxStatus = "all"
	InboxStatusUnread InboxStatus = "unread"
	InboxStatusRead   InboxStatus = "read"
)
