package usecase

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engagingPayload = `{"innovation_id":"i1","support_id":"sup1","status":"ENGAGING","message":"Welcome","thread_id":"t1"}`

func TestRunHandler_SupportEngaging(t *testing.T) {
	// Arrange
	f := newFixture(t)

	// Act
	err := f.uc.RunHandler(context.Background(), RunHandlerInput{
		EventID:   "e1",
		EventType: entity.EventSupportStatusUpdate,
		Actor:     accessor,
		Payload:   json.RawMessage(engagingPayload),
	})

	// Assert
	require.NoError(t, err)

	require.Len(t, f.mail.sent, 1)
	assert.Equal(t, entity.TplST01SupportStatusToEngaging, f.mail.sent[0].TemplateID)
	assert.Equal(t, "owner@example.test", f.mail.sent[0].To)
	assert.Equal(t, "Olivia", f.mail.sent[0].Params["display_name"])
	assert.Equal(t, "Unit One", f.mail.sent[0].Params["unit_name"])

	require.Len(t, f.repo.saved, 1)
	n := f.repo.saved[0]
	assert.Equal(t, entity.ContextTypeSupport, n.ContextType)
	assert.Equal(t, entity.TplST01SupportStatusToEngaging, n.ContextDetail)
	assert.Equal(t, "sup1", n.ContextID)
	assert.Equal(t, "i1", n.InnovationID)
	assert.Equal(t, "a1", n.CreatedBy)
	assert.Equal(t, now, n.CreatedAt)
	require.Len(t, f.repo.savedUsers[0], 1)
	assert.Equal(t, "ro1", f.repo.savedUsers[0][0].UserRoleID)
	assert.Equal(t, n.ID, f.repo.savedUsers[0][0].NotificationID)
}

func TestRunHandler_NoOpStatus(t *testing.T) {
	f := newFixture(t)

	err := f.uc.RunHandler(context.Background(), RunHandlerInput{
		EventType: entity.EventSupportStatusUpdate,
		Actor:     accessor,
		Payload:   json.RawMessage(`{"innovation_id":"i1","support_id":"sup1","status":"UNASSIGNED","thread_id":"t1"}`),
	})

	require.NoError(t, err)
	assert.Empty(t, f.mail.sent)
	assert.Empty(t, f.repo.saved)
}

func TestRunHandler_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		event   entity.EventType
		actor   entity.ActorRef
		payload string
		wantErr error
	}{
		{
			name:    "unknown event type",
			event:   "SOMETHING_ELSE",
			actor:   accessor,
			payload: `{}`,
			wantErr: entity.ErrUnknownEventType,
		},
		{
			name:    "unknown payload field",
			event:   entity.EventSupportStatusUpdate,
			actor:   accessor,
			payload: `{"innovation_id":"i1","support_id":"sup1","status":"ENGAGING","thread_id":"t1","extra":1}`,
			wantErr: entity.ErrInvalidPayload,
		},
		{
			name:    "missing required field",
			event:   entity.EventSupportStatusUpdate,
			actor:   accessor,
			payload: `{"support_id":"sup1","status":"ENGAGING","thread_id":"t1"}`,
			wantErr: entity.ErrInvalidPayload,
		},
		{
			name:    "status outside the enum",
			event:   entity.EventSupportStatusUpdate,
			actor:   accessor,
			payload: `{"innovation_id":"i1","support_id":"sup1","status":"PAUSED","thread_id":"t1"}`,
			wantErr: entity.ErrInvalidPayload,
		},
		{
			name:    "trailing data",
			event:   entity.EventSupportStatusUpdate,
			actor:   accessor,
			payload: engagingPayload + `{}`,
			wantErr: entity.ErrInvalidPayload,
		},
		{
			name:    "actor without role id",
			event:   entity.EventSupportStatusUpdate,
			actor:   entity.ActorRef{UserID: "a1", IdentityID: "ia1", Role: entity.RoleAccessor},
			payload: engagingPayload,
			wantErr: entity.ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newFixture(t)

			// Act
			err := f.uc.RunHandler(context.Background(), RunHandlerInput{
				EventType: tt.event,
				Actor:     tt.actor,
				Payload:   json.RawMessage(tt.payload),
			})

			// Assert
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, entity.IsRetryable(err))
			assert.Empty(t, f.mail.sent)
			assert.Empty(t, f.repo.saved)
		})
	}
}

func TestRunHandler_MissingInnovation(t *testing.T) {
	f := newFixture(t)

	err := f.uc.RunHandler(context.Background(), RunHandlerInput{
		EventType: entity.EventSupportStatusUpdate,
		Actor:     accessor,
		Payload:   json.RawMessage(`{"innovation_id":"i404","support_id":"sup1","status":"ENGAGING","thread_id":"t1"}`),
	})

	assert.ErrorContains(t, err, "i404")
	assert.False(t, entity.IsRetryable(err))
	assert.Empty(t, f.repo.saved)
}

func TestRunHandler_EmailFailureDoesNotFailEvent(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.mail.fails = 10

	// Act
	err := f.uc.RunHandler(context.Background(), RunHandlerInput{
		EventType: entity.EventSupportStatusUpdate,
		Actor:     accessor,
		Payload:   json.RawMessage(engagingPayload),
	})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, f.mail.sent)
	assert.Len(t, f.repo.saved, 1)
}

func TestRunHandler_InAppFailureFailsEvent(t *testing.T) {
	f := newFixture(t)
	f.repo.saveErr = errBoom

	err := f.uc.RunHandler(context.Background(), RunHandlerInput{
		EventType: entity.EventSupportStatusUpdate,
		Actor:     accessor,
		Payload:   json.RawMessage(engagingPayload),
	})

	assert.ErrorIs(t, err, errBoom)
	assert.True(t, entity.IsRetryable(err))
	assert.Len(t, f.mail.sent, 1)
}

func TestRunHandler_RedeliveryAfterPartialInAppFailure(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.repo.failOnceDetail = entity.TplInnovationSubmittedToAssessment
	in := RunHandlerInput{
		EventID:   "e7",
		EventType: entity.EventInnovationSubmitted,
		Actor:     accessor,
		Payload:   json.RawMessage(`{"innovation_id":"i1"}`),
	}

	// Act
	first := f.uc.RunHandler(context.Background(), in)
	second := f.uc.RunHandler(context.Background(), in)

	// Assert
	require.ErrorIs(t, first, errBoom)
	assert.True(t, entity.IsRetryable(first))
	require.NoError(t, second)

	byDetail := map[entity.TemplateID]int{}
	for _, n := range f.repo.saved {
		byDetail[n.ContextDetail]++
	}
	assert.Equal(t, map[entity.TemplateID]int{
		entity.TplInnovationSubmittedToInnovator:  1,
		entity.TplInnovationSubmittedToAssessment: 1,
	}, byDetail)
	assert.Equal(t, "e7:0", f.repo.saved[0].DispatchKey)
	assert.Equal(t, "e7:1", f.repo.saved[1].DispatchKey)
}

func TestSaveInAppNotification_SameDispatchKeyStoredOnce(t *testing.T) {
	// Arrange
	f := newFixture(t)
	in := SaveInAppInput{
		Actor:        accessor,
		InnovationID: "i1",
		Context:      entity.InAppContext{Type: entity.ContextTypeSupport, Detail: entity.TplST01SupportStatusToEngaging, ID: "sup1"},
		RoleIDs:      []string{"ro1"},
		DispatchKey:  "e1:0",
	}

	// Act
	id1, err1 := f.uc.SaveInAppNotification(context.Background(), in)
	id2, err2 := f.uc.SaveInAppNotification(context.Background(), in)

	// Assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, id1, id2)
	assert.Len(t, f.repo.saved, 1)
}

func TestDecodeStrict_EmptyPayload(t *testing.T) {
	for _, raw := range []string{"", "  ", "null"} {
		var p entity.AccountCreationPayload
		assert.NoError(t, decodeStrict(json.RawMessage(raw), &p), raw)
	}
}
