package appointment

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Senorsean/crm-employ-2025-sub001/logger"
	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/notify"
	"github.com/Senorsean/crm-employ-2025-sub001/repository"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
	"github.com/Senorsean/crm-employ-2025-sub001/session"
	"github.com/Senorsean/crm-employ-2025-sub001/store"
)

type testEnv struct {
	router *gin.Engine
	alerts *repository.MemoryAlerts
}

func setup(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	loc, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	log := logger.Discard()
	clk := clock.NewFake()
	alerts := repository.NewMemoryAlerts()
	coord := services.NewCoordinator(
		store.NewAppointmentStore(repository.NewMemoryAppointments(), notify.Nop{}, log, clk),
		store.NewAlertStore(alerts, notify.Nop{}, log, clk),
		loc, log,
	)

	router := gin.New()
	group := router.Group("", func(c *gin.Context) {
		p := session.Principal{UserID: "u1"}
		c.Request = c.Request.WithContext(session.WithPrincipal(c.Request.Context(), p))
	})
	AppointmentController(group, coord)
	return testEnv{router: router, alerts: alerts}
}

func (e testEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	out := map[string]json.RawMessage{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestCreateAppointment(t *testing.T) {
	env := setup(t)

	w, out := env.do(t, http.MethodPost, "/appointments", gin.H{
		"title":    "Acme",
		"date":     "2024-03-01",
		"time":     "14:30",
		"contact":  "Jeanne Martin",
		"reminder": gin.H{"enabled": true, "leadMinutes": "60"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	a := decode[model.Appointment](t, out["appointment"])
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "u1", a.Owner)
	assert.Equal(t, "14:30", a.Time)
	assert.Equal(t, model.PriorityNormal, a.Priority)
	assert.Equal(t, model.StatusPending, a.Status)
	require.NotNil(t, a.AlertDate)
	assert.True(t, a.Date.Add(-time.Hour).Equal(*a.AlertDate))

	linked, err := env.alerts.ListByAppointment(t.Context(), "u1", a.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, "Acme", linked[0].Company)
}

func TestCreateAppointmentValidation(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing title", gin.H{"date": "2024-03-01"}},
		{"bad date", gin.H{"title": "Acme", "date": "01/03/2024"}},
		{"bad time", gin.H{"title": "Acme", "date": "2024-03-01", "time": "25:99"}},
		{"bad priority", gin.H{"title": "Acme", "date": "2024-03-01", "priority": "urgent"}},
		{"skipped status", gin.H{"title": "Acme", "date": "2024-03-01", "status": "skipped"}},
		{"non-numeric lead", gin.H{"title": "Acme", "date": "2024-03-01", "reminder": gin.H{"enabled": true, "leadMinutes": "soon"}}},
		{"negative lead", gin.H{"title": "Acme", "date": "2024-03-01", "reminder": gin.H{"enabled": true, "leadMinutes": "-5"}}},
		{"bad channel", gin.H{"title": "Acme", "date": "2024-03-01", "reminder": gin.H{"enabled": true, "channel": "sms"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := env.do(t, http.MethodPost, "/appointments", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestUpdateAndStatus(t *testing.T) {
	env := setup(t)
	_, out := env.do(t, http.MethodPost, "/appointments", gin.H{"title": "Acme", "date": "2024-03-01T10:00"})
	a := decode[model.Appointment](t, out["appointment"])

	w, out := env.do(t, http.MethodPut, "/appointments/"+a.ID, gin.H{"title": "Acme SAS", "agency": "Lyon"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[model.Appointment](t, out["appointment"])
	assert.Equal(t, "Acme SAS", updated.Title)
	assert.Equal(t, "Lyon", updated.Agency)
	assert.Equal(t, "10:00", updated.Time)

	w, _ = env.do(t, http.MethodPatch, "/appointments/"+a.ID+"/status", gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, _ = env.do(t, http.MethodPatch, "/appointments/"+a.ID+"/status", gin.H{"status": "late"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = env.do(t, http.MethodPatch, "/appointments/"+a.ID+"/status", gin.H{"status": "archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodPut, "/appointments/missing", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAppointment(t *testing.T) {
	env := setup(t)
	_, out := env.do(t, http.MethodPost, "/appointments", gin.H{
		"title":    "Acme",
		"date":     "2024-03-01",
		"reminder": gin.H{"enabled": true},
	})
	a := decode[model.Appointment](t, out["appointment"])

	w, _ := env.do(t, http.MethodDelete, "/appointments/"+a.ID, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	linked, err := env.alerts.ListByAppointment(t.Context(), "u1", a.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)

	w, _ = env.do(t, http.MethodDelete, "/appointments/"+a.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, out = env.do(t, http.MethodGet, "/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]model.Appointment](t, out["appointments"]))
}
