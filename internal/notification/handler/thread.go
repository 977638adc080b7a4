package handler

import (
	"context"

	"github.com/samber/lo"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

func threadParams(hc *Context, innovation entity.Innovation, thread entity.Thread) Params {
	return func(r entity.Recipient) map[string]string {
		return map[string]string{
			"innovation_name": innovation.Name,
			"thread_subject":  thread.Subject,
			"sender":          hc.Labels.Role(hc.Actor.Role),
			"thread_url":      hc.URL.Thread(r.Role, innovation.ID, thread.ID),
		}
	}
}

// threadCreation notifies the followers. Threads opened by support or
// assessment users also reach the innovators.
func threadCreation(ctx context.Context, hc *Context, p *entity.ThreadCreationPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	thread, err := hc.Directory.Thread(ctx, p.ThreadID)
	if err != nil {
		return err
	}

	recipients, err := hc.Directory.ThreadFollowers(ctx, thread.ID)
	if err != nil {
		return err
	}

	if hc.Actor.Role != entity.RoleInnovator {
		innovators, err := hc.Directory.InnovationOwnerAndActiveCollaborators(ctx, innovation.ID)
		if err != nil {
			return err
		}
		recipients = append(recipients, innovators...)
	}

	recipients = lo.UniqBy(hc.ExcludeActor(recipients), func(r entity.Recipient) string { return r.RoleID })

	hc.AddEmails(entity.TplTH01NewThreadCreated, entity.CategoryMessage, recipients, threadParams(hc, innovation, thread))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeThread,
		Detail: entity.TplTH01NewThreadCreated,
		ID:     thread.ID,
	}, recipients, map[string]any{
		"innovation_name": innovation.Name,
		"thread_subject":  thread.Subject,
		"message_id":      p.MessageID,
	})

	return nil
}

func threadAddFollowers(ctx context.Context, hc *Context, p *entity.ThreadAddFollowersPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	thread, err := hc.Directory.Thread(ctx, p.ThreadID)
	if err != nil {
		return err
	}

	followers, err := hc.Directory.RoleRecipients(ctx, p.NewFollowersRoleIDs)
	if err != nil {
		return err
	}
	followers = hc.ExcludeActor(followers)
	if len(followers) == 0 {
		return nil
	}

	hc.AddEmails(entity.TplTH02ThreadFollowerAdded, entity.CategoryMessage, followers, threadParams(hc, innovation, thread))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeThread,
		Detail: entity.TplTH02ThreadFollowerAdded,
		ID:     thread.ID,
	}, followers, map[string]any{
		"innovation_name": innovation.Name,
		"thread_subject":  thread.Subject,
	})

	return nil
}

// threadMessageCreation fans a reply out to everyone who wrote in the
// thread, except the actor and the assessment team. Two rules add people
// back:
//
//   - an assessment author of the thread is kept when an innovator replies,
//     so assessment initiated threads do not go silent;
//   - the innovation owner is appended once when absent, unless the owner
//     is the actor.
//
// Presence is checked by user, so an owner already reached through another
// role is not added a second time.
func threadMessageCreation(ctx context.Context, hc *Context, p *entity.ThreadMessageCreationPayload) error {
	innovation, err := hc.Directory.Innovation(ctx, p.InnovationID, false)
	if err != nil {
		return err
	}

	thread, err := hc.Directory.Thread(ctx, p.ThreadID)
	if err != nil {
		return err
	}

	intervenients, err := hc.Directory.ThreadIntervenients(ctx, thread.ID)
	if err != nil {
		return err
	}

	recipients := lo.Filter(intervenients, func(r entity.Recipient, _ int) bool {
		return !hc.IsActor(r) && r.Role != entity.RoleAssessment
	})

	if thread.AuthorRole == entity.RoleAssessment &&
		hc.Actor.Role == entity.RoleInnovator &&
		thread.AuthorUserID != hc.Actor.UserID {
		author, found := lo.Find(intervenients, func(r entity.Recipient) bool { return r.RoleID == thread.AuthorRoleID })
		if !found {
			list, err := hc.Directory.RoleRecipients(ctx, []string{thread.AuthorRoleID})
			if err != nil {
				return err
			}
			author, found = lo.First(list)
		}
		if found {
			recipients = append(recipients, author)
		}
	}

	owner, err := hc.Directory.InnovationOwner(ctx, innovation.ID)
	if err != nil {
		return err
	}
	if !hc.IsActor(owner) && !lo.ContainsBy(recipients, func(r entity.Recipient) bool { return r.UserID == owner.UserID }) {
		recipients = append(recipients, owner)
	}

	recipients = lo.UniqBy(recipients, func(r entity.Recipient) string { return r.RoleID })

	hc.AddEmails(entity.TplTH03NewThreadMessage, entity.CategoryMessage, recipients, threadParams(hc, innovation, thread))
	hc.AddInApp(innovation.ID, entity.InAppContext{
		Type:   entity.ContextTypeThread,
		Detail: entity.TplTH03NewThreadMessage,
		ID:     thread.ID,
	}, recipients, map[string]any{
		"innovation_name": innovation.Name,
		"thread_subject":  thread.Subject,
		"message_id":      p.MessageID,
	})

	return nil
}
