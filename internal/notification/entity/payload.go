package entity

// One payload struct per EventType. Payloads are decoded strictly and
// validated before a handler runs.

type InnovationSubmittedPayload struct {
	InnovationID   string `json:"innovation_id" validate:"required"`
	IsReassessment bool   `json:"is_reassessment"`
}

type NeedsAssessmentStartedPayload struct {
	InnovationID string `json:"innovation_id" validate:"required"`
	AssessmentID string `json:"assessment_id" validate:"required"`
	ThreadID     string `json:"thread_id" validate:"required"`
	Message      string `json:"message"`
}

type NeedsAssessmentCompletedPayload struct {
	InnovationID string `json:"innovation_id" validate:"required"`
	AssessmentID string `json:"assessment_id" validate:"required"`
}

type OrganisationUnitsSuggestionPayload struct {
	InnovationID string   `json:"innovation_id" validate:"required"`
	UnitIDs      []string `json:"unit_ids" validate:"required,min=1,notblank_items"`
	Comment      string   `json:"comment"`
}

type SupportStatusUpdatePayload struct {
	InnovationID            string        `json:"innovation_id" validate:"required"`
	SupportID               string        `json:"support_id" validate:"required"`
	Status                  SupportStatus `json:"status" validate:"required,oneof=SUGGESTED ENGAGING WAITING UNASSIGNED UNSUITABLE CLOSED"`
	NewAssignedAccessorsIDs []string      `json:"new_assigned_accessors_ids" validate:"omitempty,notblank_items"`
	Message                 string        `json:"message"`
	ThreadID                string        `json:"thread_id" validate:"required"`
}

type SupportNewAssignedAccessorsPayload struct {
	InnovationID                string   `json:"innovation_id" validate:"required"`
	SupportID                   string   `json:"support_id" validate:"required"`
	ThreadID                    string   `json:"thread_id" validate:"required"`
	Message                     string   `json:"message"`
	NewAssignedAccessorsIDs     []string `json:"new_assigned_accessors_ids" validate:"omitempty,notblank_items"`
	RemovedAssignedAccessorsIDs []string `json:"removed_assigned_accessors_ids" validate:"omitempty,notblank_items"`
}

type ThreadCreationPayload struct {
	InnovationID string `json:"innovation_id" validate:"required"`
	ThreadID     string `json:"thread_id" validate:"required"`
	MessageID    string `json:"message_id" validate:"required"`
}

type ThreadAddFollowersPayload struct {
	InnovationID        string   `json:"innovation_id" validate:"required"`
	ThreadID            string   `json:"thread_id" validate:"required"`
	NewFollowersRoleIDs []string `json:"new_followers_role_ids" validate:"required,min=1,notblank_items"`
}

type ThreadMessageCreationPayload struct {
	InnovationID string `json:"innovation_id" validate:"required"`
	ThreadID     string `json:"thread_id" validate:"required"`
	MessageID    string `json:"message_id" validate:"required"`
}

type CollaboratorInvitePayload struct {
	InnovationID   string `json:"innovation_id" validate:"required"`
	CollaboratorID string `json:"collaborator_id" validate:"required"`
}

type CollaboratorUpdatePayload struct {
	InnovationID string `json:"innovation_id" validate:"required"`
	Collaborator struct {
		ID     string             `json:"id" validate:"required"`
		Status CollaboratorStatus `json:"status" validate:"required,oneof=INVITED ACTIVE DECLINED CANCELLED LEFT REMOVED"`
	} `json:"collaborator" validate:"required"`
}

type TransferOwnershipCreationPayload struct {
	InnovationID string `json:"innovation_id" validate:"required"`
	TransferID   string `json:"transfer_id" validate:"required"`
}

type AffectedUser struct {
	UserID             string `json:"user_id" validate:"required"`
	Role               Role   `json:"role" validate:"required,oneof=INNOVATOR ACCESSOR QUALIFYING_ACCESSOR ASSESSMENT ADMIN"`
	OrganisationUnitID string `json:"organisation_unit_id"`
}

type InnovationWithdrawnPayload struct {
	Innovation struct {
		ID            string         `json:"id" validate:"required"`
		Name          string         `json:"name" validate:"required"`
		AffectedUsers []AffectedUser `json:"affected_users" validate:"dive"`
	} `json:"innovation" validate:"required"`
}

type InnovationStopSharingPayload struct {
	InnovationID   string         `json:"innovation_id" validate:"required"`
	OrganisationID string         `json:"organisation_id" validate:"required"`
	AffectedUsers  []AffectedUser `json:"affected_users" validate:"dive"`
	Message        string         `json:"message"`
}

type TaskCreationPayload struct {
	InnovationID string `json:"innovation_id" validate:"required"`
	TaskID       string `json:"task_id" validate:"required"`
	ThreadID     string `json:"thread_id"`
}

type TaskUpdatePayload struct {
	InnovationID string     `json:"innovation_id" validate:"required"`
	TaskID       string     `json:"task_id" validate:"required"`
	Status       TaskStatus `json:"status" validate:"required,oneof=OPEN DONE DECLINED CANCELLED"`
	Message      string     `json:"message"`
	ThreadID     string     `json:"thread_id"`
}

type AccountCreationPayload struct{}

type IdleSupportPayload struct{}

type ExportRequestSubmittedPayload struct {
	InnovationID string `json:"innovation_id" validate:"required"`
	RequestID    string `json:"request_id" validate:"required"`
}

type ExportRequestFeedbackPayload struct {
	InnovationID string `json:"innovation_id" validate:"required"`
	RequestID    string `json:"request_id" validate:"required"`
}
