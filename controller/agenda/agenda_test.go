package agenda

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/logger"
	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
	"github.com/Senorsean/crm-employ-2025-sub001/store"
)

func setup(t *testing.T, authenticated bool) (*gin.Engine, *repository.MemoryAppointments, *services.Coordinator) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Discard()
	clk := clock.NewFake()
	apps := repository.NewMemoryAppointments()
	coord := services.NewCoordinator(
		store.NewAppointmentStore(apps, notify.Nop{}, log, clk),
		store.NewAlertStore(repository.NewMemoryAlerts(), notify.Nop{}, log, clk),
		time.UTC, log,
	)

	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		if authenticated {
			c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), session.Principal{UserID: "u1"}))
		}
	})
	AgendaController(group, coord)
	return router, apps, coord
}

func seed(t *testing.T, apps *repository.MemoryAppointments, day int, status model.Status, reminders bool) {
	t.Helper()
	a := model.Appointment{
		Title:  "Acme",
		Date:   time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC),
		Status: status,
		Owner:  "u1",
	}
	if reminders {
		a.Reminder = &model.ReminderConfig{Enabled: true, LeadMinutes: "30"}
	}
	_, err := apps.Create(t.Context(), a)
	require.NoError(t, err)
}

func get(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestGetAgendaReconciles(t *testing.T) {
	router, apps, _ := setup(t, true)
	seed(t, apps, 1, model.StatusLate, true)
	seed(t, apps, 2, model.StatusPending, false)

	w := get(router, http.MethodGet, "/agenda")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.AgendaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Appointments, 2)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, model.StatusLate, resp.Alerts[0].Status)
	assert.Equal(t, dto.SyncResponse{Created: 1}, resp.Sync)
	assert.Nil(t, resp.Errors)

	w = get(router, http.MethodPost, "/agenda/sync")
	require.Equal(t, http.StatusOK, w.Code)
	var again dto.SyncResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &again))
	assert.Zero(t, again)
}

func TestCalendar(t *testing.T) {
	router, apps, _ := setup(t, true)
	seed(t, apps, 1, model.StatusCompleted, false)
	seed(t, apps, 1, model.StatusPending, false)
	seed(t, apps, 5, model.StatusLate, false)
	seed(t, apps, 9, model.StatusPending, false)

	w := get(router, http.MethodGet, "/agenda/calendar?from=2024-03-01&to=2024-03-05")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Days []services.DayMarker `json:"days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []services.DayMarker{
		{Day: "2024-03-01", Status: model.StatusPending, Count: 2},
		{Day: "2024-03-05", Status: model.StatusLate, Count: 1},
	}, resp.Days)

	w = get(router, http.MethodGet, "/agenda/calendar?from=yesterday")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAgendaRequiresPrincipal(t *testing.T) {
	router, _, _ := setup(t, false)
	assert.Equal(t, http.StatusUnauthorized, get(router, http.MethodGet, "/agenda").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, http.MethodPost, "/agenda/sync").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, http.MethodGet, "/agenda/calendar").Code)
}

func TestGetAgendaReportsStoreErrors(t *testing.T) {
	router, _, coord := setup(t, true)
	ctx := session.WithPrincipal(t.Context(), session.Principal{UserID: "u1"})
	_, err := coord.SetStatus(ctx, "missing", model.StatusLate)
	require.ErrorIs(t, err, repository.ErrNotFound)

	w := get(router, http.MethodGet, "/agenda")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp dto.AgendaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Errors)
	assert.Contains(t, resp.Errors.Appointments, "not found")
	assert.Empty(t, resp.Errors.Alerts)

	w = get(router, http.MethodGet, "/agenda")
	require.Equal(t, http.StatusOK, w.Code)
	resp = dto.AgendaResponse{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Errors)
}
