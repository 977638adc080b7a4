package handler

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
)

var ErrDuplicateDefinition = errors.New("handler: duplicate definition")

// Definition binds an event type to its payload type, its policy and the
// email templates the policy may use.
type Definition struct {
	Event     entity.EventType
	Templates []entity.TemplateID

	newPayload func() any
	run        func(ctx context.Context, hc *Context, payload any) error
}

func define[P any](event entity.EventType, fn func(ctx context.Context, hc *Context, payload *P) error, templates ...entity.TemplateID) Definition {
	return Definition{
		Event:      event,
		Templates:  templates,
		newPayload: func() any { return new(P) },
		run: func(ctx context.Context, hc *Context, payload any) error {
			p, ok := payload.(*P)
			if !ok {
				return fmt.Errorf("%w: %s expects %T, got %T", entity.ErrInvalidPayload, event, p, payload)
			}
			return fn(ctx, hc, p)
		},
	}
}

// NewPayload returns a pointer to a zero payload of the event's type, ready
// to be decoded into.
func (d Definition) NewPayload() any {
	return d.newPayload()
}

func (d Definition) Run(ctx context.Context, hc *Context, payload any) error {
	return d.run(ctx, hc, payload)
}

// TemplateCatalog reports which email templates exist.
type TemplateCatalog interface {
	Has(id entity.TemplateID) bool
}

// Registry is the immutable event type to definition table.
type Registry struct {
	defs map[entity.EventType]Definition
}

// NewRegistry validates defs: every known event type needs exactly one
// definition and, when catalog is set, every declared template must exist.
func NewRegistry(catalog TemplateCatalog, defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[entity.EventType]Definition, len(defs))}

	for _, d := range defs {
		if _, ok := r.defs[d.Event]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDefinition, d.Event)
		}
		r.defs[d.Event] = d
	}

	var errs []error
	for _, event := range entity.EventTypes() {
		d, ok := r.defs[event]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: no definition for %s", entity.ErrUnknownEventType, event))
			continue
		}
		if catalog == nil {
			continue
		}
		for _, tpl := range d.Templates {
			if !catalog.Has(tpl) {
				errs = append(errs, fmt.Errorf("%w: %s used by %s", entity.ErrTemplateNotFound, tpl, event))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return r, nil
}

// Lookup fails with entity.ErrUnknownEventType for types the registry was
// not built with.
func (r *Registry) Lookup(event entity.EventType) (Definition, error) {
	d, ok := r.defs[event]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", entity.ErrUnknownEventType, event)
	}
	return d, nil
}

// Templates lists every template declared by the registered definitions.
func (r *Registry) Templates() []entity.TemplateID {
	var out []entity.TemplateID
	for _, d := range r.defs {
		out = append(out, d.Templates...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Definitions returns the production table.
func Definitions() []Definition {
	return []Definition{
		define(entity.EventInnovationSubmitted, innovationSubmitted,
			entity.TplInnovationSubmittedToInnovator,
			entity.TplInnovationSubmittedToAssessment,
			entity.TplReassessmentSubmittedToAssess,
		),
		define(entity.EventNeedsAssessmentStarted, needsAssessmentStarted, entity.TplNA01NeedsAssessmentStarted),
		define(entity.EventNeedsAssessmentCompleted, needsAssessmentCompleted, entity.TplNA02NeedsAssessmentCompleted),
		define(entity.EventOrganisationUnitsSuggestion, organisationUnitsSuggestion, entity.TplOS01UnitsSuggestionToQA),
		define(entity.EventSupportStatusUpdate, supportStatusUpdate,
			entity.TplST01SupportStatusToEngaging,
			entity.TplST02SupportStatusToOther,
			entity.TplST03SupportStatusToWaiting,
		),
		define(entity.EventSupportNewAssignedAccessors, supportNewAssignedAccessors,
			entity.TplST04SupportNewAssignedAccessors,
			entity.TplST05SupportAccessorRemoved,
		),
		define(entity.EventThreadCreation, threadCreation, entity.TplTH01NewThreadCreated),
		define(entity.EventThreadAddFollowers, threadAddFollowers, entity.TplTH02ThreadFollowerAdded),
		define(entity.EventThreadMessageCreation, threadMessageCreation, entity.TplTH03NewThreadMessage),
		define(entity.EventCollaboratorInvite, collaboratorInvite,
			entity.TplCI01InviteToExistingUser,
			entity.TplCI02InviteToNewUser,
		),
		define(entity.EventCollaboratorUpdate, collaboratorUpdate,
			entity.TplInviteAcceptedToOwner,
			entity.TplInviteAcceptedToCollaborators,
			entity.TplInviteDeclinedToOwner,
			entity.TplInviteCancelledToCollaborator,
			entity.TplCollaboratorRemovedToCollab,
			entity.TplCollaboratorLeftToOwner,
			entity.TplCollaboratorLeftToCollaborators,
		),
		define(entity.EventTransferOwnershipCreation, transferOwnershipCreation,
			entity.TplTO01TransferOwnershipExistingUser,
			entity.TplTO02TransferOwnershipNewUser,
		),
		define(entity.EventInnovationWithdrawn, innovationWithdrawn, entity.TplWI01InnovationWithdrawn),
		define(entity.EventInnovationStopSharing, innovationStopSharing,
			entity.TplSH01StoppedSharingToAccessor,
			entity.TplSH02StoppedSharingToInnovator,
		),
		define(entity.EventTaskCreation, taskCreation, entity.TplTA01TaskCreationToInnovator),
		define(entity.EventTaskUpdate, taskUpdate,
			entity.TplTA02TaskRespondedToAccessor,
			entity.TplTA03TaskRespondedToInnovators,
			entity.TplTA04TaskCancelledToInnovator,
			entity.TplTA05TaskReopenedToInnovator,
		),
		define(entity.EventAccountCreation, accountCreation, entity.TplCA01AccountCreation),
		define(entity.EventIdleSupport, idleSupport, entity.TplAU01IdleSupportToAccessor),
		define(entity.EventExportRequestSubmitted, exportRequestSubmitted, entity.TplRE01ExportRequestSubmitted),
		define(entity.EventExportRequestFeedback, exportRequestFeedback,
			entity.TplRE02ExportRequestApproved,
			entity.TplRE03ExportRequestRejected,
		),
	}
}
