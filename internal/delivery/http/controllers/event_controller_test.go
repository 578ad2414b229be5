package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chipin/internal/delivery/http/helpers"
	"chipin/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventController_CreateEvent(t *testing.T) {
	tests := []struct {
		name       string
		body       CreateEventRequest
		outcome    *domain.Outcome
		wantStatus int
		wantDate   time.Time
		wantAmount string
	}{
		{
			name:       "plain date",
			body:       CreateEventRequest{Name: "Cabin", Date: "2026-11-20", TotalSpend: "480.00"},
			outcome:    domain.Success(domain.GroupPath(testGroupID), "Event \"Cabin\" created successfully!"),
			wantStatus: http.StatusCreated,
			wantDate:   time.Date(2026, 11, 20, 0, 0, 0, 0, time.UTC),
			wantAmount: "480",
		},
		{
			name:       "rfc3339 date and junk amount",
			body:       CreateEventRequest{Name: "Dinner", Date: "2026-11-20T19:30:00Z", TotalSpend: "about fifty"},
			outcome:    domain.Success(domain.GroupPath(testGroupID), "Event \"Dinner\" created successfully!"),
			wantStatus: http.StatusCreated,
			wantDate:   time.Date(2026, 11, 20, 19, 30, 0, 0, time.UTC),
			wantAmount: "0",
		},
		{
			name:       "not admin",
			body:       CreateEventRequest{Name: "Cabin", Date: "2026-11-20", TotalSpend: "10"},
			outcome:    domain.Failure(domain.GroupPath(testGroupID), "Only the group administrator can create events."),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "total beyond stored range",
			body:       CreateEventRequest{Name: "Yacht", Date: "2026-11-20", TotalSpend: "1e40000000"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad date",
			body:       CreateEventRequest{Name: "Cabin", Date: "20/11/2026"},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeEventService{event: &domain.Event{ID: testEventID, GroupID: testGroupID}, outcome: tt.outcome}
			rr := httptest.NewRecorder()

			NewEventController(testLogger, svc).CreateEvent(rr, newRequest(http.MethodPost, "/", tt.body, testUserID, map[string]string{"groupID": testGroupID}))

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.outcome == nil {
				assert.Empty(t, svc.lastCall)
				return
			}
			assert.Equal(t, []string{testGroupID, testUserID, tt.body.Name}, svc.lastArgs)
			if tt.wantAmount != "" {
				assert.True(t, tt.wantDate.Equal(svc.lastDate))
				assert.True(t, svc.lastAmount.Equal(decimal.RequireFromString(tt.wantAmount)))
			}
		})
	}
}

func TestEventController_EventActions(t *testing.T) {
	type handler func(*EventController) http.HandlerFunc
	actions := []struct {
		call    string
		handler handler
	}{
		{"JoinEvent", func(c *EventController) http.HandlerFunc { return c.JoinEvent }},
		{"LeaveEvent", func(c *EventController) http.HandlerFunc { return c.LeaveEvent }},
		{"UpdateEventStatus", func(c *EventController) http.HandlerFunc { return c.UpdateEventStatus }},
		{"DeleteEvent", func(c *EventController) http.HandlerFunc { return c.DeleteEvent }},
	}
	cases := []struct {
		name       string
		eventID    string
		outcome    *domain.Outcome
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "success", eventID: testEventID, outcome: domain.Success(domain.GroupPath(testGroupID), "done"), wantStatus: http.StatusOK},
		{name: "warning", eventID: testEventID, outcome: domain.Warning(domain.GroupPath(testGroupID), "remains Pending"), wantStatus: http.StatusOK},
		{name: "denied", eventID: testEventID, outcome: domain.Failure(domain.GroupPath(testGroupID), "Your spending limit of 10.00 is less than the share 25.00."), wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "missing event", eventID: testEventID, err: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "store failure", eventID: testEventID, err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
		{name: "bad id", eventID: "e1", wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
	}
	for _, a := range actions {
		for _, tt := range cases {
			t.Run(a.call+"/"+tt.name, func(t *testing.T) {
				svc := &fakeEventService{outcome: tt.outcome, err: tt.err}
				ctrl := NewEventController(testLogger, svc)
				rr := httptest.NewRecorder()

				a.handler(ctrl)(rr, newRequest(http.MethodPost, "/", nil, testUserID, map[string]string{"groupID": testGroupID, "eventID": tt.eventID}))

				require.Equal(t, tt.wantStatus, rr.Code)
				env := decodeResponse(t, rr)
				if tt.wantCode != "" {
					assert.Equal(t, tt.wantCode, env.Error.Code)
					return
				}
				assert.Equal(t, string(tt.outcome.Level), outcomeOf(t, env)["level"])
				assert.Equal(t, a.call, svc.lastCall)
				assert.Equal(t, []string{testGroupID, testEventID, testUserID}, svc.lastArgs)
			})
		}
	}
}
