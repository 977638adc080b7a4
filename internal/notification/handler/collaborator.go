package handler

import (
	"context"
	"net/url"

	"github.com/samber/lo"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

// collaboratorRecipient returns the collaborator's innovator role when the
// invitee already has an account.
func (c *Context) collaboratorRecipient(ctx context.Context, collaborator entity.Collaborator) (entity.Recipient, bool, error) {
	if collaborator.UserID == "" {
		return entity.Recipient{}, false, nil
	}
	list, err := c.Directory.UserRecipients(ctx, []string{collaborator.UserID}, entity.RoleInnovator)
	if err != nil {
		return entity.Recipient{}, false, err
	}
	r, ok := lo.First(list)
	return r, ok, nil
}

// displayName resolves a person known only by email, falling back to it.
func (c *Context) displayName(ctx context.Context, email string) (string, error) {
	info, err := c.Directory.UserInfoByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if info == nil || info.DisplayName == "" {
		return email, nil
	}
	return info.DisplayName, nil
}

// collaboratorInvite addresses a registered invitee by identity and an
// unregistered one by raw email with a sign up link.
func collaboratorInvite(ctx context.Context, hc *Context, p *entity.CollaboratorInvitePayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	collaborator, err := hc.Directory.Collaborator(ctx, p.CollaboratorID)
	if err != nil {
		return err
	}

	r, registered, err := hc.collaboratorRecipient(ctx, collaborator)
	if err != nil {
		return err
	}

	if registered {
		hc.AddEmails(entity.TplCI01InviteToExistingUser, entity.CategoryAction, []entity.Recipient{r}, Static(map[string]string{
			"innovation_name": innovation.Name,
			"invite_url":      hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "collaborations", collaborator.ID),
		}))
		hc.AddInApp(innovation.ID, entity.InAppContext{
			Type:   entity.ContextTypeInnovationManagement,
			Detail: entity.TplCI01InviteToExistingUser,
			ID:     collaborator.ID,
		}, []entity.Recipient{r}, map[string]any{"innovation_name": innovation.Name, "collaborator_id": collaborator.ID})
		return nil
	}

	hc.AddEmailTo(entity.TplCI02InviteToNewUser, entity.ToEmail(collaborator.Email), entity.CategoryNone, map[string]string{
		"innovation_name": innovation.Name,
		"invite_url":      hc.URL.Public("signup", url.Values{"collaboratorId": {collaborator.ID}}),
	})
	return nil
}

// collaboratorUpdate follows the collaborator state machine:
//
//	INVITED -> ACTIVE | DECLINED | CANCELLED
//	ACTIVE  -> LEFT | REMOVED
//
// Audiences are the owner, the subject collaborator and the remaining
// collaborators. Each gets at most one email per transition.
func collaboratorUpdate(ctx context.Context, hc *Context, p *entity.CollaboratorUpdatePayload) error {
	status := p.Collaborator.Status
	if status == entity.CollaboratorStatusInvited {
		return nil
	}

	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	collaborator, err := hc.Directory.Collaborator(ctx, p.Collaborator.ID)
	if err != nil {
		return err
	}

	inAppContext := func(tpl entity.TemplateID) entity.InAppContext {
		return entity.InAppContext{Type: entity.ContextTypeInnovationManagement, Detail: tpl, ID: collaborator.ID}
	}

	switch status {
	case entity.CollaboratorStatusActive, entity.CollaboratorStatusDeclined, entity.CollaboratorStatusLeft:
		name, err := hc.displayName(ctx, collaborator.Email)
		if err != nil {
			return err
		}
		params := map[string]string{
			"innovation_name":   innovation.Name,
			"collaborator_name": name,
			"innovation_url":    hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "manage", "collaborators"),
		}
		inAppParams := map[string]any{"innovation_name": innovation.Name, "collaborator_name": name}

		ownerTpl, othersTpl := collaboratorTemplates(status)

		owner, err := hc.Directory.InnovationOwner(ctx, innovation.ID)
		if err != nil {
			return err
		}
		owners := hc.ExcludeActor([]entity.Recipient{owner})
		hc.AddEmails(ownerTpl, entity.CategoryAction, owners, Static(params))
		hc.AddInApp(innovation.ID, inAppContext(ownerTpl), owners, inAppParams)

		if othersTpl == "" {
			return nil
		}
		others, err := hc.Directory.ActiveCollaborators(ctx, innovation.ID)
		if err != nil {
			return err
		}
		others = lo.Filter(hc.ExcludeActor(others), func(r entity.Recipient, _ int) bool {
			return r.UserID != owner.UserID && (collaborator.UserID == "" || r.UserID != collaborator.UserID)
		})
		if len(others) == 0 {
			return nil
		}
		hc.AddEmails(othersTpl, entity.CategoryAction, others, Static(params))
		hc.AddInApp(innovation.ID, inAppContext(othersTpl), others, inAppParams)
		return nil

	case entity.CollaboratorStatusCancelled, entity.CollaboratorStatusRemoved:
		tpl := entity.TplInviteCancelledToCollaborator
		if status == entity.CollaboratorStatusRemoved {
			tpl = entity.TplCollaboratorRemovedToCollab
		}
		params := map[string]string{"innovation_name": innovation.Name}

		r, registered, err := hc.collaboratorRecipient(ctx, collaborator)
		if err != nil {
			return err
		}
		if !registered {
			hc.AddEmailTo(tpl, entity.ToEmail(collaborator.Email), entity.CategoryNone, params)
			return nil
		}
		subject := hc.ExcludeActor([]entity.Recipient{r})
		hc.AddEmails(tpl, entity.CategoryAction, subject, Static(params))
		hc.AddInApp(innovation.ID, inAppContext(tpl), subject, map[string]any{"innovation_name": innovation.Name})
		return nil

	default:
		return entity.NotImplemented(hc.Event, status)
	}
}

func collaboratorTemplates(status entity.CollaboratorStatus) (owner, others entity.TemplateID) {
	switch status {
	case entity.CollaboratorStatusActive:
		return entity.TplInviteAcceptedToOwner, entity.TplInviteAcceptedToCollaborators
	case entity.CollaboratorStatusLeft:
		return entity.TplCollaboratorLeftToOwner, entity.TplCollaboratorLeftToCollaborators
	default:
		return entity.TplInviteDeclinedToOwner, ""
	}
}

// transferOwnershipCreation addresses a registered target by identity and
// anyone else by raw email.
func transferOwnershipCreation(ctx context.Context, hc *Context, p *entity.TransferOwnershipCreationPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	transfer, err := hc.Directory.Transfer(ctx, p.TransferID)
	if err != nil {
		return err
	}

	owners, err := hc.Directory.UsersIdentityInfo(ctx, []string{hc.Actor.IdentityID})
	if err != nil {
		return err
	}
	params := map[string]string{
		"innovation_name": innovation.Name,
		"owner_name":      owners[hc.Actor.IdentityID].DisplayName,
	}

	info, err := hc.Directory.UserInfoByEmail(ctx, transfer.Email)
	if err != nil {
		return err
	}
	if info != nil {
		targets, err := hc.Directory.IdentityRecipients(ctx, []string{info.IdentityID}, entity.RoleInnovator)
		if err != nil {
			return err
		}
		if target, ok := lo.First(targets); ok {
			params["transfer_url"] = hc.URL.Innovation(entity.RoleInnovator, innovation.ID, "transfers", transfer.ID)
			hc.AddEmails(entity.TplTO01TransferOwnershipExistingUser, entity.CategoryAction, []entity.Recipient{target}, Static(params))
			hc.AddInApp(innovation.ID, entity.InAppContext{
				Type:   entity.ContextTypeInnovationManagement,
				Detail: entity.TplTO01TransferOwnershipExistingUser,
				ID:     transfer.ID,
			}, []entity.Recipient{target}, map[string]any{"innovation_name": innovation.Name})
			return nil
		}
	}

	params["transfer_url"] = hc.URL.Public("signup", url.Values{"transferId": {transfer.ID}})
	hc.AddEmailTo(entity.TplTO02TransferOwnershipNewUser, entity.ToEmail(transfer.Email), entity.CategoryNone, params)
	return nil
}
