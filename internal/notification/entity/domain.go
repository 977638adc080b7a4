package entity

import "time"

// The types below are read models of the platform's domain store. The
// engine only reads them.

type Innovation struct {
	ID              string
	Name            string
	OwnerUserID     string
	OwnerIdentityID string
	DeletedAt       *time.Time
}

type Thread struct {
	ID           string
	InnovationID string
	Subject      string
	AuthorUserID string
	AuthorRoleID string
	AuthorRole   Role
}

type Collaborator struct {
	ID           string
	InnovationID string
	Email        string
	Status       CollaboratorStatus
	// UserID is empty while the invited person has no platform account.
	UserID string
}

type Transfer struct {
	ID           string
	InnovationID string
	Email        string
}

type Task struct {
	ID              string
	DisplayID       string
	InnovationID    string
	Status          TaskStatus
	CreatedByUserID string
	CreatedByRoleID string
}

type ExportRequest struct {
	ID              string
	InnovationID    string
	Status          ExportRequestStatus
	RejectReason    string
	CreatedByUserID string
	CreatedByRoleID string
}

type IdleSupport struct {
	SupportID          string
	InnovationID       string
	InnovationName     string
	OwnerIdentityID    string
	OrganisationUnitID string
	Accessors          []Recipient
}
