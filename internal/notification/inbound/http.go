package inbound

import (
	"net/http"

	"github.com/shandysiswandi/notifyhub/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/v1/notification/inbox", end.ListInbox)
	r.GET("/api/v1/notification/inbox/counters", end.InboxCounters)
	r.PATCH("/api/v1/notification/inbox/:id/read", end.MarkInboxRead)
	r.PUT("/api/v1/notification/inbox/read-all", end.MarkAllInboxRead)
	r.DELETE("/api/v1/notification/inbox/:id", end.DeleteInbox)

	r.GET("/api/v1/notification/preferences", end.ListPreferences)
	r.PUT("/api/v1/notification/preferences", end.UpdatePreferences)

	r.GET("/api/v1/notification/digest-candidates", end.DigestCandidates)

	r.GETRaw("/api/v1/notification/stream", http.HandlerFunc(end.StreamNotifications))
}
