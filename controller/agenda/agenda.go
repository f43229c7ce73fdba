package agenda

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/controller/response"
	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
)

func AgendaController(router *gin.RouterGroup, coord *services.Coordinator) {
	routes := router.Group("/agenda")
	{
		routes.GET("", func(c *gin.Context) {
			GetAgenda(c, coord)
		})
		routes.POST("/sync", func(c *gin.Context) {
			Sync(c, coord)
		})
		routes.GET("/calendar", func(c *gin.Context) {
			Calendar(c, coord)
		})
	}
}

// GetAgenda loads both lists after repairing them, the way the agenda page does on open.
func GetAgenda(c *gin.Context, coord *services.Coordinator) {
	view, err := coord.Agenda(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AgendaResponse{
		Appointments: view.Appointments,
		Alerts:       view.Alerts,
		Sync:         syncResponse(view.Report),
		Errors:       storeErrors(view),
	})
}

func storeErrors(v services.AgendaView) *dto.StoreErrors {
	if v.AppointmentsErr == nil && v.AlertsErr == nil {
		return nil
	}
	out := &dto.StoreErrors{}
	if v.AppointmentsErr != nil {
		out.Appointments = v.AppointmentsErr.Error()
	}
	if v.AlertsErr != nil {
		out.Alerts = v.AlertsErr.Error()
	}
	return out
}

func Sync(c *gin.Context, coord *services.Coordinator) {
	report, err := coord.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, syncResponse(report))
}

func Calendar(c *gin.Context, coord *services.Coordinator) {
	var from, to time.Time
	var err error
	if v := c.Query("from"); v != "" {
		if from, err = dto.ParseDate(v, coord.Location()); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	if v := c.Query("to"); v != "" {
		if to, err = dto.ParseDate(v, coord.Location()); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}

	markers, err := coord.Calendar(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": markers})
}

func syncResponse(r services.ReconcileReport) dto.SyncResponse {
	return dto.SyncResponse{
		Created:      r.Created,
		Adopted:      r.Adopted,
		Removed:      r.Removed,
		StatusSynced: r.StatusSynced,
	}
}
