package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
)

type DigestCandidatesInput struct {
	Category string `validate:"required"`
}

// DigestCandidates lists the active roles batching category into the
// daily digest. It feeds the scheduled digest aggregator.
func (s *Usecase) DigestCandidates(ctx context.Context, in DigestCandidatesInput) (_ []entity.Recipient, err error) {
	ctx, span := s.startSpan(ctx, "DigestCandidates")
	defer span.End()

	if _, err := s.requireAuth(ctx, objectDigest, actionRead); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	category := entity.CategoryFromString(in.Category)
	if category == entity.CategoryNone {
		return nil, goerror.NewBusiness("category is not supported: "+in.Category, goerror.CodeInvalidFormat)
	}

	list, err := s.digest.DigestCandidates(ctx, category)
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve digest candidates", "category", category, "error", err)
		return nil, goerror.NewServer(err)
	}

	out := make([]entity.Recipient, 0, len(list))
	for _, r := range list {
		if r.IsActive && !r.IsLocked {
			out = append(out, r)
		}
	}
	return out, nil
}
