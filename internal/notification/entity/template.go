package entity

// TemplateID names an email template of the external catalog. It also tags
// the detail of in-app notifications.
type TemplateID string

const (
	TplInnovationSubmittedToInnovator  TemplateID = "INNOVATION_SUBMITTED_TO_INNOVATOR"
	TplInnovationSubmittedToAssessment TemplateID = "INNOVATION_SUBMITTED_TO_ASSESSMENT"
	TplReassessmentSubmittedToAssess   TemplateID = "REASSESSMENT_SUBMITTED_TO_ASSESSMENT"

	TplNA01NeedsAssessmentStarted   TemplateID = "NA01_NEEDS_ASSESSMENT_STARTED_TO_INNOVATOR"
	TplNA02NeedsAssessmentCompleted TemplateID = "NA02_NEEDS_ASSESSMENT_COMPLETED_TO_INNOVATOR"

	TplOS01UnitsSuggestionToQA TemplateID = "OS01_UNITS_SUGGESTION_TO_QA"

	TplST01SupportStatusToEngaging     TemplateID = "ST01_SUPPORT_STATUS_TO_ENGAGING"
	TplST02SupportStatusToOther        TemplateID = "ST02_SUPPORT_STATUS_TO_OTHER"
	TplST03SupportStatusToWaiting      TemplateID = "ST03_SUPPORT_STATUS_TO_WAITING"
	TplST04SupportNewAssignedAccessors TemplateID = "ST04_SUPPORT_NEW_ASSIGNED_ACCESSORS_TO_ACCESSOR"
	TplST05SupportAccessorRemoved      TemplateID = "ST05_SUPPORT_ACCESSOR_REMOVED_TO_ACCESSOR"

	TplTH01NewThreadCreated     TemplateID = "TH01_NEW_THREAD_CREATED"
	TplTH02ThreadFollowerAdded  TemplateID = "TH02_THREAD_FOLLOWER_ADDED"
	TplTH03NewThreadMessage     TemplateID = "TH03_NEW_THREAD_MESSAGE"
	TplCI01InviteToExistingUser TemplateID = "CI01_INVITE_TO_EXISTING_USER"
	TplCI02InviteToNewUser      TemplateID = "CI02_INVITE_TO_NEW_USER"

	TplInviteAcceptedToOwner           TemplateID = "INVITE_ACCEPTED_TO_OWNER"
	TplInviteAcceptedToCollaborators   TemplateID = "INVITE_ACCEPTED_TO_COLLABORATORS"
	TplInviteDeclinedToOwner           TemplateID = "INVITE_DECLINED_TO_OWNER"
	TplInviteCancelledToCollaborator   TemplateID = "INVITE_CANCELLED_TO_COLLABORATOR"
	TplCollaboratorRemovedToCollab     TemplateID = "COLLABORATOR_REMOVED_TO_COLLABORATOR"
	TplCollaboratorLeftToOwner         TemplateID = "COLLABORATOR_LEFT_TO_OWNER"
	TplCollaboratorLeftToCollaborators TemplateID = "COLLABORATOR_LEFT_TO_COLLABORATORS"

	TplTO01TransferOwnershipExistingUser TemplateID = "TO01_TRANSFER_OWNERSHIP_EXISTING_USER"
	TplTO02TransferOwnershipNewUser      TemplateID = "TO02_TRANSFER_OWNERSHIP_NEW_USER"

	TplWI01InnovationWithdrawn       TemplateID = "WI01_INNOVATION_WITHDRAWN"
	TplSH01StoppedSharingToAccessor  TemplateID = "SH01_INNOVATION_STOPPED_SHARING_TO_ACCESSOR"
	TplSH02StoppedSharingToInnovator TemplateID = "SH02_INNOVATION_STOPPED_SHARING_TO_INNOVATOR"
	TplTA01TaskCreationToInnovator   TemplateID = "TA01_TASK_CREATION_TO_INNOVATOR"
	TplTA02TaskRespondedToAccessor   TemplateID = "TA02_TASK_RESPONDED_TO_ACCESSOR"
	TplTA03TaskRespondedToInnovators TemplateID = "TA03_TASK_RESPONDED_TO_OTHER_INNOVATORS"
	TplTA04TaskCancelledToInnovator  TemplateID = "TA04_TASK_CANCELLED_TO_INNOVATOR"
	TplTA05TaskReopenedToInnovator   TemplateID = "TA05_TASK_REOPENED_TO_INNOVATOR"
	TplCA01AccountCreation           TemplateID = "CA01_ACCOUNT_CREATION"
	TplAU01IdleSupportToAccessor     TemplateID = "AU01_IDLE_SUPPORT_TO_ACCESSOR"
	TplRE01ExportRequestSubmitted    TemplateID = "RE01_EXPORT_REQUEST_SUBMITTED_TO_INNOVATOR"
	TplRE02ExportRequestApproved     TemplateID = "RE02_EXPORT_REQUEST_APPROVED"
	TplRE03ExportRequestRejected     TemplateID = "RE03_EXPORT_REQUEST_REJECTED"
)

func (t TemplateID) String() string {
	return string(t)
}

// EmailTemplate is one entry of the email catalog.
type EmailTemplate struct {
	ID      TemplateID `json:"-"`
	Subject string     `json:"subject"`
	HTML    string     `json:"html"`
	Text    string     `json:"text"`
}
