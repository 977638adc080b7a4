package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"github.com/shandysiswandi/notifyhub/internal/pkg/jwt"
)

const (
	objectInbox       = "notification:inbox"
	objectPreferences = "notification:preferences"
	objectDigest      = "notification:digest"

	actionRead  = "read"
	actionWrite = "write"
)

// requireAuth returns the caller and checks its role may act on obj.
func (s *Usecase) requireAuth(ctx context.Context, obj, act string) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("authentication required", goerror.CodeUnauthorized)
	}

	ok, err := s.enforcer.Enforce(clm.Role, obj, act)
	if err != nil {
		slog.ErrorContext(ctx, "failed to enforce notification policy", "role", clm.Role, "object", obj, "action", act, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ok {
		return nil, goerror.NewBusiness("access denied", goerror.CodeForbidden)
	}

	return clm, nil
}
