package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "chipin/internal/delivery/http/helpers"
	"chipin/internal/domain"
)

const eventDateLayout = "2006-01-02"

// CreateEventRequest is the request body for POST /groups/{groupID}/events.
// total_spend is free-form; anything that is not a number counts as zero, but
// numbers beyond the stored range are rejected.
type CreateEventRequest struct {
	Name       string `json:"name" example:"Cabin weekend"`
	Date       string `json:"date" example:"2026-11-20"`
	TotalSpend string `json:"total_spend" example:"480.00"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if _, err := parseEventDate(c.Date); err != nil {
		errs = append(errs, "date must be YYYY-MM-DD or RFC 3339")
	}
	if _, err := domain.ParseMoney(c.TotalSpend); errors.Is(err, domain.ErrAmountOutOfRange) {
		errs = append(errs, "total_spend must be at most "+domain.FormatAmount(domain.MaxAmount)+" in magnitude")
	}
	return errs
}

func parseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(eventDateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create an event
// @Description Admin only. The event starts Pending.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.OutcomeSuccessResponse "data.result contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	date, _ := parseEventDate(req.Date)
	event, outcome, err := c.Service.CreateEvent(r.Context(), groupID, userID, req.Name, date, domain.ParseAmount(req.TotalSpend))
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "group not found")
		return
	}
	h.WriteOutcome(w, http.StatusCreated, outcome, event)
}

// JoinEvent godoc
// @Summary Join an event
// @Description Allowed when the caller's spending cap covers the share. Re-evaluates the event status.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/events/{eventID}/join [post]
func (c *EventController) JoinEvent(w http.ResponseWriter, r *http.Request) {
	c.eventAction(w, r, c.Service.JoinEvent)
}

// LeaveEvent godoc
// @Summary Leave an event
// @Description The caller must have joined. Re-evaluates the event status.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/events/{eventID}/leave [post]
func (c *EventController) LeaveEvent(w http.ResponseWriter, r *http.Request) {
	c.eventAction(w, r, c.Service.LeaveEvent)
}

// UpdateEventStatus godoc
// @Summary Re-check an event's status
// @Description Admin only. Active when every member's cap covers the share, Pending otherwise.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/events/{eventID}/status [post]
func (c *EventController) UpdateEventStatus(w http.ResponseWriter, r *http.Request) {
	c.eventAction(w, r, c.Service.UpdateEventStatus)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Admin only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param groupID path string true "Group ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.OutcomeSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /groups/{groupID}/events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	c.eventAction(w, r, c.Service.DeleteEvent)
}

func (c *EventController) eventAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, groupID, eventID, userID string) (*domain.Outcome, error)) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	groupID, ok := h.PathID(w, r, "groupID")
	if !ok {
		return
	}
	eventID, ok := h.PathID(w, r, "eventID")
	if !ok {
		return
	}
	outcome, err := action(r.Context(), groupID, eventID, userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	h.WriteOutcome(w, http.StatusOK, outcome, nil)
}
