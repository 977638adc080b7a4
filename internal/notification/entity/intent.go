package entity

import "github.com/shandysiswandi/notifyhub/internal/pkg/valueobject"

type AddressType string

const (
	// AddressIdentity resolves the mailbox and display name at send time.
	AddressIdentity AddressType = "identityId"
	// AddressEmail is a static mailbox for people without a platform account.
	AddressEmail AddressType = "email"
)

type EmailTo struct {
	Type   AddressType `json:"type"`
	Value  string      `json:"value"`
	UserID string      `json:"user_id,omitempty"`
	RoleID string      `json:"role_id,omitempty"`
}

func ToIdentity(r Recipient) EmailTo {
	return EmailTo{Type: AddressIdentity, Value: r.IdentityID, UserID: r.UserID, RoleID: r.RoleID}
}

func ToEmail(email string) EmailTo {
	return EmailTo{Type: AddressEmail, Value: email}
}

type EmailIntent struct {
	TemplateID TemplateID
	To         EmailTo
	Category   Category
	Params     map[string]string
}

type InAppContext struct {
	Type   ContextType `json:"type"`
	Detail TemplateID  `json:"detail"`
	ID     string      `json:"id"`
}

type InAppIntent struct {
	InnovationID     string
	Context          InAppContext
	RecipientRoleIDs []string
	Params           valueobject.JSONMap
}
