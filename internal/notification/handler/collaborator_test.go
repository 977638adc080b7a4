package handler

import (
	"testing"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var collab2 = entity.Recipient{UserID: "c2", RoleID: "rc2", Role: entity.RoleInnovator, IdentityID: "ic2", IsActive: true}

func collaboratorFixture() *fakeDirectory {
	dir := newFakeDirectory()
	dir.people = append(dir.people, collab2)
	dir.collaborators[kit.ID] = []entity.Recipient{collab, collab2}
	dir.collabRecords["col1"] = entity.Collaborator{ID: "col1", InnovationID: kit.ID, Email: "c1@example.test", UserID: "c1"}
	dir.collabRecords["col9"] = entity.Collaborator{ID: "col9", InnovationID: kit.ID, Email: "new@example.test"}
	return dir
}

func updatePayload(id string, status entity.CollaboratorStatus) *entity.CollaboratorUpdatePayload {
	p := &entity.CollaboratorUpdatePayload{InnovationID: kit.ID}
	p.Collaborator.ID = id
	p.Collaborator.Status = status
	return p
}

func TestCollaboratorUpdate(t *testing.T) {
	tests := []struct {
		name   string
		actor  entity.Recipient
		id     string
		status entity.CollaboratorStatus
		want   []string
	}{
		{
			name:   "declined invite reaches the owner only",
			actor:  collab,
			id:     "col1",
			status: entity.CollaboratorStatusDeclined,
			want:   []string{"INVITE_DECLINED_TO_OWNER>io1"},
		},
		{
			name:   "accepted invite reaches owner and the other collaborators",
			actor:  collab,
			id:     "col1",
			status: entity.CollaboratorStatusActive,
			want:   []string{"INVITE_ACCEPTED_TO_OWNER>io1", "INVITE_ACCEPTED_TO_COLLABORATORS>ic2"},
		},
		{
			name:   "leaving reaches owner and the other collaborators",
			actor:  collab,
			id:     "col1",
			status: entity.CollaboratorStatusLeft,
			want:   []string{"COLLABORATOR_LEFT_TO_OWNER>io1", "COLLABORATOR_LEFT_TO_COLLABORATORS>ic2"},
		},
		{
			name:   "removed registered collaborator by identity",
			actor:  owner,
			id:     "col1",
			status: entity.CollaboratorStatusRemoved,
			want:   []string{"COLLABORATOR_REMOVED_TO_COLLABORATOR>ic1"},
		},
		{
			name:   "cancelled invite of an unregistered person by email",
			actor:  owner,
			id:     "col9",
			status: entity.CollaboratorStatusCancelled,
			want:   []string{"INVITE_CANCELLED_TO_COLLABORATOR>new@example.test"},
		},
		{
			name:   "invited is a no-op",
			actor:  owner,
			id:     "col1",
			status: entity.CollaboratorStatusInvited,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			dir := collaboratorFixture()

			// Act
			hc, err := runEvent(t, dir, entity.EventCollaboratorUpdate, actorOf(tt.actor), updatePayload(tt.id, tt.status))

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.want, emailed(hc))
		})
	}
}

func TestCollaboratorUpdate_DeclinedInApp(t *testing.T) {
	hc, err := runEvent(t, collaboratorFixture(), entity.EventCollaboratorUpdate, actorOf(collab),
		updatePayload("col1", entity.CollaboratorStatusDeclined))

	require.NoError(t, err)
	require.Len(t, hc.InApp(), 1)
	n := hc.InApp()[0]
	assert.Equal(t, []string{"ro1"}, n.RecipientRoleIDs)
	assert.Equal(t, entity.InAppContext{
		Type:   entity.ContextTypeInnovationManagement,
		Detail: entity.TplInviteDeclinedToOwner,
		ID:     "col1",
	}, n.Context)
	assert.Equal(t, "c1@example.test", n.Params["collaborator_name"])
}

func TestCollaboratorUpdate_UnknownStatus(t *testing.T) {
	_, err := runEvent(t, collaboratorFixture(), entity.EventCollaboratorUpdate, actorOf(owner),
		updatePayload("col1", entity.CollaboratorStatus("PAUSED")))

	assert.ErrorIs(t, err, entity.ErrNotImplemented)
}

func TestCollaboratorInvite(t *testing.T) {
	t.Run("registered invitee", func(t *testing.T) {
		hc, err := runEvent(t, collaboratorFixture(), entity.EventCollaboratorInvite, actorOf(owner),
			&entity.CollaboratorInvitePayload{InnovationID: kit.ID, CollaboratorID: "col1"})

		require.NoError(t, err)
		assert.Equal(t, []string{"CI01_INVITE_TO_EXISTING_USER>ic1"}, emailed(hc))
		assert.Equal(t, entity.CategoryAction, hc.Emails()[0].Category)
		assert.Equal(t, map[entity.TemplateID][]string{entity.TplCI01InviteToExistingUser: {"rc1"}}, inAppRoles(hc))
	})

	t.Run("unregistered invitee gets a sign up link", func(t *testing.T) {
		hc, err := runEvent(t, collaboratorFixture(), entity.EventCollaboratorInvite, actorOf(owner),
			&entity.CollaboratorInvitePayload{InnovationID: kit.ID, CollaboratorID: "col9"})

		require.NoError(t, err)
		require.Equal(t, []string{"CI02_INVITE_TO_NEW_USER>new@example.test"}, emailed(hc))
		e := hc.Emails()[0]
		assert.Equal(t, entity.AddressEmail, e.To.Type)
		assert.Equal(t, entity.CategoryNone, e.Category)
		assert.Equal(t, "https://app.example.test/signup?collaboratorId=col9", e.Params["invite_url"])
		assert.Empty(t, hc.InApp())
	})
}

func TestTransferOwnershipCreation(t *testing.T) {
	fixture := func() *fakeDirectory {
		dir := newFakeDirectory()
		dir.identities["io1"] = entity.IdentityInfo{IdentityID: "io1", DisplayName: "Olivia", Email: "o1@example.test"}
		dir.identities["ic1"] = entity.IdentityInfo{IdentityID: "ic1", DisplayName: "Cara", Email: "c1@example.test"}
		dir.transfers["tr1"] = entity.Transfer{ID: "tr1", InnovationID: kit.ID, Email: "c1@example.test"}
		dir.transfers["tr2"] = entity.Transfer{ID: "tr2", InnovationID: kit.ID, Email: "x@example.test"}
		return dir
	}

	t.Run("registered target", func(t *testing.T) {
		hc, err := runEvent(t, fixture(), entity.EventTransferOwnershipCreation, actorOf(owner),
			&entity.TransferOwnershipCreationPayload{InnovationID: kit.ID, TransferID: "tr1"})

		require.NoError(t, err)
		assert.Equal(t, []string{"TO01_TRANSFER_OWNERSHIP_EXISTING_USER>ic1"}, emailed(hc))
		assert.Equal(t, "Olivia", hc.Emails()[0].Params["owner_name"])
		assert.Len(t, hc.InApp(), 1)
	})

	t.Run("unknown target by email", func(t *testing.T) {
		hc, err := runEvent(t, fixture(), entity.EventTransferOwnershipCreation, actorOf(owner),
			&entity.TransferOwnershipCreationPayload{InnovationID: kit.ID, TransferID: "tr2"})

		require.NoError(t, err)
		assert.Equal(t, []string{"TO02_TRANSFER_OWNERSHIP_NEW_USER>x@example.test"}, emailed(hc))
		assert.Equal(t, "https://app.example.test/signup?transferId=tr2", hc.Emails()[0].Params["transfer_url"])
		assert.Empty(t, hc.InApp())
	})
}
