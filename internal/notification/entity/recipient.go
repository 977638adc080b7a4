package entity

// ActorRef is the user who triggered an event.
type ActorRef struct {
	UserID             string `json:"user_id" validate:"required"`
	IdentityID         string `json:"identity_id" validate:"required"`
	Role               Role   `json:"role" validate:"required,oneof=INNOVATOR ACCESSOR QUALIFYING_ACCESSOR ASSESSMENT ADMIN"`
	RoleID             string `json:"role_id" validate:"required"`
	OrganisationID     string `json:"organisation_id,omitempty"`
	OrganisationUnitID string `json:"organisation_unit_id,omitempty"`
}

// Recipient is a resolved notification target. It is computed per dispatch
// and reflects the directory state at that moment.
type Recipient struct {
	UserID             string
	RoleID             string
	Role               Role
	IdentityID         string
	OrganisationID     string
	OrganisationUnitID string
	IsLocked           bool
	IsActive           bool
	Preferences        map[Category]Setting
}

type Preference struct {
	RoleID   string
	Category Category
	Setting  Setting
}

type IdentityInfo struct {
	IdentityID  string `json:"identity_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}
