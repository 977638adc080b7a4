package inbound

import (
	"strconv"
	"strings"

	"github.com/shandysiswandi/notifyhub/internal/notification/usecase"
	"github.com/shandysiswandi/notifyhub/internal/pkg/goerror"
	"github.com/shandysiswandi/notifyhub/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// ListInbox returns the caller's notifications, newest first.
// @Summary List inbox
// @Description Returns in-app notifications of the authenticated user role.
// @Tags Inbox
// @Security BearerAuth
// @Produce json
// @Param status query string false "Filter by status (all|read|unread)"
// @Param limit query int false "Pagination limit"
// @Param offset query int false "Pagination offset"
// @Success 200 {object} router.successResponse{data=NotificationsResponse} "Notification list"
// @Failure 400 {object} router.errorResponse "Invalid query parameters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox [get]
func (h *HTTPEndpoint) ListInbox(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt("limit", 0)
	if err != nil {
		return nil, err
	}
	offset, err := r.GetQueryInt("offset", 0)
	if err != nil {
		return nil, err
	}

	items, err := h.uc.ListInbox(r.Context(), usecase.ListInboxInput{
		Status: r.GetQuery("status"),
		Limit:  int32(min(limit, 1000)),
		Offset: int32(min(offset, 1<<30)),
	})
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, NotificationResponse{
			ID:            item.ID,
			InnovationID:  item.InnovationID,
			ContextType:   string(item.ContextType),
			ContextDetail: item.ContextDetail.String(),
			ContextID:     item.ContextID,
			Params:        item.Params,
			ReadAt:        item.ReadAt,
			CreatedAt:     item.CreatedAt,
		})
	}

	return NotificationsResponse{Notifications: resp}, nil
}

// InboxCounters returns unread notifications per context type.
// @Summary Inbox counters
// @Tags Inbox
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=InboxCountersResponse} "Unread counters"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/counters [get]
func (h *HTTPEndpoint) InboxCounters(r *router.Request) (any, error) {
	counters, err := h.uc.InboxCounters(r.Context())
	if err != nil {
		return nil, err
	}

	resp := InboxCountersResponse{Counters: make([]InboxCounterResponse, 0, len(counters))}
	for _, c := range counters {
		resp.Counters = append(resp.Counters, InboxCounterResponse{ContextType: string(c.ContextType), Unread: c.Unread})
		resp.Total += c.Unread
	}

	return resp, nil
}

// MarkInboxRead marks a notification as read.
// @Summary Mark inbox read
// @Description Marks an inbox notification as read. Repeated calls keep the first read time.
// @Tags Inbox
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid notification id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/{id}/read [patch]
func (h *HTTPEndpoint) MarkInboxRead(r *router.Request) (any, error) {
	id, err := strconv.ParseInt(r.GetParam("id"), 10, 64)
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	return nil, h.uc.MarkInboxRead(r.Context(), usecase.MarkInboxReadInput{ID: id})
}

// MarkAllInboxRead marks all notifications as read.
// @Summary Mark all inbox read
// @Tags Inbox
// @Security BearerAuth
// @Success 200 {object} router.successResponse{data=MarkAllReadResponse} "Updated rows"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/read-all [put]
func (h *HTTPEndpoint) MarkAllInboxRead(r *router.Request) (any, error) {
	updated, err := h.uc.MarkAllInboxRead(r.Context())
	if err != nil {
		return nil, err
	}

	return MarkAllReadResponse{Updated: updated}, nil
}

// DeleteInbox removes a notification from the caller's inbox.
// @Summary Delete inbox
// @Tags Inbox
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid notification id"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 404 {object} router.errorResponse "Notification not found"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/inbox/{id} [delete]
func (h *HTTPEndpoint) DeleteInbox(r *router.Request) (any, error) {
	id, err := strconv.ParseInt(r.GetParam("id"), 10, 64)
	if err != nil {
		return nil, goerror.NewInvalidFormat()
	}

	return nil, h.uc.DeleteInbox(r.Context(), usecase.DeleteInboxInput{ID: id})
}

// ListPreferences returns the effective setting of every category.
// @Summary List notification preferences
// @Tags Preferences
// @Security BearerAuth
// @Produce json
// @Success 200 {object} router.successResponse{data=PreferencesResponse} "Preferences"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/preferences [get]
func (h *HTTPEndpoint) ListPreferences(r *router.Request) (any, error) {
	prefs, err := h.uc.ListPreferences(r.Context())
	if err != nil {
		return nil, err
	}

	resp := make([]PreferenceResponse, 0, len(prefs))
	for _, p := range prefs {
		resp = append(resp, PreferenceResponse{Category: string(p.Category), Setting: string(p.Setting)})
	}

	return PreferencesResponse{Preferences: resp}, nil
}

// UpdatePreferences upserts the given categories.
// @Summary Update notification preferences
// @Tags Preferences
// @Security BearerAuth
// @Accept json
// @Param request body PreferencesUpdateRequest true "Preferences payload"
// @Success 204 "No Content"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/preferences [put]
func (h *HTTPEndpoint) UpdatePreferences(r *router.Request) (any, error) {
	var req PreferencesUpdateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	inputs := make([]usecase.UpdatePreferenceInput, 0, len(req.Preferences))
	for _, p := range req.Preferences {
		inputs = append(inputs, usecase.UpdatePreferenceInput{Category: p.Category, Setting: p.Setting})
	}

	return nil, h.uc.UpdatePreferences(r.Context(), usecase.UpdatePreferencesInput{Preferences: inputs})
}

// DigestCandidates lists the roles receiving a category in the daily digest.
// @Summary List digest candidates
// @Tags Preferences
// @Security BearerAuth
// @Produce json
// @Param category query string true "Category (ACTION|SUPPORT|MESSAGE)"
// @Success 200 {object} router.successResponse{data=DigestCandidatesResponse} "Digest candidates"
// @Failure 400 {object} router.errorResponse "Unknown category"
// @Failure 401 {object} router.errorResponse "Unauthorized"
// @Failure 403 {object} router.errorResponse "Forbidden"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/notification/digest-candidates [get]
func (h *HTTPEndpoint) DigestCandidates(r *router.Request) (any, error) {
	category := r.GetQuery("category")
	list, err := h.uc.DigestCandidates(r.Context(), usecase.DigestCandidatesInput{Category: category})
	if err != nil {
		return nil, err
	}

	resp := DigestCandidatesResponse{
		Category:   strings.ToUpper(category),
		Candidates: make([]DigestCandidateResponse, 0, len(list)),
	}
	for _, rc := range list {
		resp.Candidates = append(resp.Candidates, DigestCandidateResponse{
			RoleID:     rc.RoleID,
			UserID:     rc.UserID,
			Role:       string(rc.Role),
			IdentityID: rc.IdentityID,
		})
	}

	return resp, nil
}
