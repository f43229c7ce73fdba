package appointment

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/controller/response"
	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
)

func AppointmentController(router *gin.RouterGroup, coord *services.Coordinator) {
	routes := router.Group("/appointments")
	{
		routes.GET("", func(c *gin.Context) {
			ListAppointments(c, coord)
		})
		routes.POST("", func(c *gin.Context) {
			CreateAppointment(c, coord)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateAppointment(c, coord)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteAppointment(c, coord)
		})
		routes.PATCH("/:id/status", func(c *gin.Context) {
			UpdateStatus(c, coord)
		})
	}
}

func ListAppointments(c *gin.Context, coord *services.Coordinator) {
	items, err := coord.Appointments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": items})
}

func CreateAppointment(c *gin.Context, coord *services.Coordinator) {
	var req dto.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	date, err := dto.ParseDate(req.Date, coord.Location())
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := validTime(req.Time); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	reminder, err := reminderConfig(req.Reminder)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	a, err := coord.CreateAppointment(c.Request.Context(), model.Appointment{
		Title:    strings.TrimSpace(req.Title),
		Date:     date,
		Time:     req.Time,
		Agency:   req.Agency,
		Contact:  req.Contact,
		Priority: model.Priority(req.Priority),
		Status:   model.Status(req.Status),
		Reminder: reminder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":     "Appointment created successfully",
		"appointment": a,
	})
}

func UpdateAppointment(c *gin.Context, coord *services.Coordinator) {
	var req dto.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	patch := model.AppointmentPatch{
		Title:   req.Title,
		Agency:  req.Agency,
		Contact: req.Contact,
	}
	if req.Date != nil {
		date, err := dto.ParseDate(*req.Date, coord.Location())
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		patch.Date = &date
	}
	if req.Time != nil {
		if err := validTime(*req.Time); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		patch.Time = req.Time
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		s := model.Status(*req.Status)
		patch.Status = &s
	}
	if req.Reminder != nil {
		reminder, err := reminderConfig(req.Reminder)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		patch.Reminder = reminder
	}

	a, err := coord.UpdateAppointment(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment updated successfully",
		"appointment": a,
	})
}

func DeleteAppointment(c *gin.Context, coord *services.Coordinator) {
	if err := coord.DeleteAppointment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}

func UpdateStatus(c *gin.Context, coord *services.Coordinator) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	a, err := coord.SetStatus(c.Request.Context(), c.Param("id"), model.Status(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Appointment status updated",
		"appointment": a,
	})
}

func validTime(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("15:04", strings.TrimSpace(value)); err != nil {
		return errInvalid("time", value)
	}
	return nil
}

// reminderConfig checks the form values of a reminder: leadMinutes must be a
// non-negative whole number of minutes.
func reminderConfig(req *dto.ReminderRequest) (*model.ReminderConfig, error) {
	if req == nil {
		return nil, nil
	}
	lead := strings.TrimSpace(req.LeadMinutes)
	if lead != "" {
		n, err := strconv.Atoi(lead)
		if err != nil || n < 0 {
			return nil, errInvalid("leadMinutes", req.LeadMinutes)
		}
	}
	channel := model.ReminderChannel(req.Channel)
	if channel == "" {
		channel = model.ChannelNotification
	}
	return &model.ReminderConfig{Enabled: req.Enabled, LeadMinutes: lead, Channel: channel}, nil
}

func errInvalid(field, value string) error {
	return fmt.Errorf("invalid %s %q", field, value)
}
