package handler

import (
	"context"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

// accountCreation welcomes the actor, who is the new user. The email is
// mandatory and there is no in-app notification.
func accountCreation(_ context.Context, hc *Context, _ *entity.AccountCreationPayload) error {
	hc.AddEmailTo(entity.TplCA01AccountCreation, entity.EmailTo{
		Type:   entity.AddressIdentity,
		Value:  hc.Actor.IdentityID,
		UserID: hc.Actor.UserID,
		RoleID: hc.Actor.RoleID,
	}, entity.CategoryNone, map[string]string{
		"role":          hc.Labels.Role(hc.Actor.Role),
		"dashboard_url": hc.URL.For(hc.Actor.Role, "dashboard"),
	})
	return nil
}
