package inbound

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/notifyhub/internal/notification/entity"
	"github.com/shandysiswandi/notifyhub/internal/notification/usecase"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"github.com/shandysiswandi/notifyhub/internal/pkg/router"
	"github.com/shandysiswandi/notifyhub/internal/pkg/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUC struct {
	fakeConsumer

	inbox     []entity.InboxItem
	counters  []entity.InboxCounter
	prefs     []entity.Preference
	err       error
	streamErr error
	stream    chan usecase.StreamEvent

	gotList   usecase.ListInboxInput
	gotRead   usecase.MarkInboxReadInput
	gotDelete usecase.DeleteInboxInput
	gotPrefs  usecase.UpdatePreferencesInput
	digest    []entity.Recipient
	gotDigest usecase.DigestCandidatesInput
}

func (f *fakeUC) StreamNotifications(context.Context) (<-chan usecase.StreamEvent, error) {
	return f.stream, f.streamErr
}

func (f *fakeUC) ListInbox(_ context.Context, in usecase.ListInboxInput) ([]entity.InboxItem, error) {
	f.gotList = in
	return f.inbox, f.err
}

func (f *fakeUC) InboxCounters(context.Context) ([]entity.InboxCounter, error) {
	return f.counters, f.err
}

func (f *fakeUC) MarkInboxRead(_ context.Context, in usecase.MarkInboxReadInput) error {
	f.gotRead = in
	return f.err
}

func (f *fakeUC) MarkAllInboxRead(context.Context) (int64, error) {
	return 3, f.err
}

func (f *fakeUC) DeleteInbox(_ context.Context, in usecase.DeleteInboxInput) error {
	f.gotDelete = in
	return f.err
}

func (f *fakeUC) ListPreferences(context.Context) ([]entity.Preference, error) {
	return f.prefs, f.err
}

func (f *fakeUC) UpdatePreferences(_ context.Context, in usecase.UpdatePreferencesInput) error {
	f.gotPrefs = in
	return f.err
}

func (f *fakeUC) DigestCandidates(_ context.Context, in usecase.DigestCandidatesInput) ([]entity.Recipient, error) {
	f.gotDigest = in
	return f.digest, f.err
}

func request(method, target, body string, params ...httprouter.Param) *router.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	ctx := context.WithValue(req.Context(), httprouter.ParamsKey, httprouter.Params(params))
	return &router.Request{Request: req.WithContext(ctx)}
}

func TestHTTPEndpoint_ListInbox(t *testing.T) {
	readAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("maps items", func(t *testing.T) {
		// Arrange
		uc := &fakeUC{inbox: []entity.InboxItem{{
			ID:            7,
			InnovationID:  "i1",
			ContextType:   entity.ContextTypeThread,
			ContextDetail: entity.TplTH03NewThreadMessage,
			ContextID:     "t1",
			Params:        valueobject.JSONMap{"thread_subject": "Hello"},
			ReadAt:        &readAt,
		}}}
		end := &HTTPEndpoint{uc: uc}

		// Act
		resp, err := end.ListInbox(request(http.MethodGet, "/api/v1/notification/inbox?status=unread&limit=5&offset=10", ""))

		// Assert
		require.NoError(t, err)
		assert.Equal(t, usecase.ListInboxInput{Status: "unread", Limit: 5, Offset: 10}, uc.gotList)
		got := resp.(NotificationsResponse)
		require.Len(t, got.Notifications, 1)
		assert.Equal(t, "THREAD", got.Notifications[0].ContextType)
		assert.Equal(t, "TH03_NEW_THREAD_MESSAGE", got.Notifications[0].ContextDetail)
		assert.Equal(t, &readAt, got.Notifications[0].ReadAt)
	})

	t.Run("bad limit", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		_, err := end.ListInbox(request(http.MethodGet, "/api/v1/notification/inbox?limit=abc", ""))

		assert.True(t, goerror.HasCode(err, goerror.CodeInvalidFormat))
	})

	t.Run("empty inbox is an empty list", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		resp, err := end.ListInbox(request(http.MethodGet, "/api/v1/notification/inbox", ""))

		require.NoError(t, err)
		assert.NotNil(t, resp.(NotificationsResponse).Notifications)
	})
}

func TestHTTPEndpoint_InboxCounters(t *testing.T) {
	uc := &fakeUC{counters: []entity.InboxCounter{
		{ContextType: entity.ContextTypeThread, Unread: 2},
		{ContextType: entity.ContextTypeTask, Unread: 1},
	}}
	end := &HTTPEndpoint{uc: uc}

	resp, err := end.InboxCounters(request(http.MethodGet, "/api/v1/notification/inbox/counters", ""))

	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.(InboxCountersResponse).Total)
	assert.Len(t, resp.(InboxCountersResponse).Counters, 2)
}

func TestHTTPEndpoint_InboxActions(t *testing.T) {
	t.Run("mark read parses id", func(t *testing.T) {
		uc := &fakeUC{}
		end := &HTTPEndpoint{uc: uc}

		resp, err := end.MarkInboxRead(request(http.MethodPatch, "/", "", httprouter.Param{Key: "id", Value: "42"}))

		require.NoError(t, err)
		assert.Nil(t, resp)
		assert.Equal(t, int64(42), uc.gotRead.ID)
	})

	t.Run("mark read rejects bad id", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		_, err := end.MarkInboxRead(request(http.MethodPatch, "/", "", httprouter.Param{Key: "id", Value: "x"}))

		assert.True(t, goerror.HasCode(err, goerror.CodeInvalidFormat))
	})

	t.Run("mark all reports updated rows", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		resp, err := end.MarkAllInboxRead(request(http.MethodPut, "/", ""))

		require.NoError(t, err)
		assert.Equal(t, MarkAllReadResponse{Updated: 3}, resp)
	})

	t.Run("delete passes usecase error", func(t *testing.T) {
		uc := &fakeUC{err: goerror.NewBusiness("Notification not found", goerror.CodeNotFound)}
		end := &HTTPEndpoint{uc: uc}

		_, err := end.DeleteInbox(request(http.MethodDelete, "/", "", httprouter.Param{Key: "id", Value: "9"}))

		assert.True(t, goerror.HasCode(err, goerror.CodeNotFound))
		assert.Equal(t, int64(9), uc.gotDelete.ID)
	})
}

func TestHTTPEndpoint_Preferences(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		uc := &fakeUC{prefs: []entity.Preference{{RoleID: "r1", Category: entity.CategoryAction, Setting: entity.SettingDaily}}}
		end := &HTTPEndpoint{uc: uc}

		resp, err := end.ListPreferences(request(http.MethodGet, "/", ""))

		require.NoError(t, err)
		assert.Equal(t, PreferencesResponse{Preferences: []PreferenceResponse{{Category: "ACTION", Setting: "DAILY"}}}, resp)
	})

	t.Run("update", func(t *testing.T) {
		uc := &fakeUC{}
		end := &HTTPEndpoint{uc: uc}

		_, err := end.UpdatePreferences(request(http.MethodPut, "/", `{"preferences":[{"category":"MESSAGE","setting":"NEVER"}]}`))

		require.NoError(t, err)
		assert.Equal(t, []usecase.UpdatePreferenceInput{{Category: "MESSAGE", Setting: "NEVER"}}, uc.gotPrefs.Preferences)
	})

	t.Run("update rejects unknown fields", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{}}

		_, err := end.UpdatePreferences(request(http.MethodPut, "/", `{"prefs":[]}`))

		assert.True(t, goerror.HasCode(err, goerror.CodeInvalidFormat))
	})
}

func TestHTTPEndpoint_DigestCandidates(t *testing.T) {
	t.Run("maps recipients", func(t *testing.T) {
		uc := &fakeUC{digest: []entity.Recipient{{UserID: "u1", RoleID: "r1", Role: entity.RoleAccessor, IdentityID: "id1"}}}
		end := &HTTPEndpoint{uc: uc}

		resp, err := end.DigestCandidates(request(http.MethodGet, "/api/v1/notification/digest-candidates?category=message", ""))

		require.NoError(t, err)
		assert.Equal(t, "message", uc.gotDigest.Category)
		assert.Equal(t, DigestCandidatesResponse{
			Category:   "MESSAGE",
			Candidates: []DigestCandidateResponse{{RoleID: "r1", UserID: "u1", Role: "ACCESSOR", IdentityID: "id1"}},
		}, resp)
	})

	t.Run("passes usecase error", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{err: goerror.NewBusiness("access denied", goerror.CodeForbidden)}}

		_, err := end.DigestCandidates(request(http.MethodGet, "/api/v1/notification/digest-candidates?category=ACTION", ""))

		assert.True(t, goerror.HasCode(err, goerror.CodeForbidden))
	})
}

func TestHTTPEndpoint_StreamNotifications(t *testing.T) {
	t.Run("writes events until the stream closes", func(t *testing.T) {
		// Arrange
		stream := make(chan usecase.StreamEvent, 1)
		stream <- usecase.StreamEvent{ID: 5, ContextType: entity.ContextTypeTask}
		close(stream)
		end := &HTTPEndpoint{uc: &fakeUC{stream: stream}}
		rec := httptest.NewRecorder()

		// Act
		end.StreamNotifications(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notification/stream", nil))

		// Assert
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), ": connected\n\n")
		assert.Contains(t, rec.Body.String(), "id: 5\nevent: notification\ndata: {\"id\":5,")
	})

	t.Run("unauthorized", func(t *testing.T) {
		end := &HTTPEndpoint{uc: &fakeUC{streamErr: goerror.NewBusiness("Unauthorized", goerror.CodeUnauthorized)}}
		rec := httptest.NewRecorder()

		end.StreamNotifications(rec, httptest.NewRequest(http.MethodGet, "/api/v1/notification/stream", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
