package alert

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Senorsean/crm-employ-2025-sub001/controller/response"
	"github.com/Senorsean/crm-employ-2025-sub001/dto"
	"github.com/Senorsean/crm-employ-2025-sub001/model"
	"github.com/Senorsean/crm-employ-2025-sub001/services"
)

func AlertController(router *gin.RouterGroup, coord *services.Coordinator) {
	routes := router.Group("/alerts")
	{
		routes.GET("", func(c *gin.Context) {
			ListAlerts(c, coord)
		})
		routes.POST("", func(c *gin.Context) {
			CreateAlert(c, coord)
		})
		routes.PUT("/:id", func(c *gin.Context) {
			UpdateAlert(c, coord)
		})
		routes.DELETE("/:id", func(c *gin.Context) {
			DeleteAlert(c, coord)
		})
		routes.PATCH("/:id/status", func(c *gin.Context) {
			UpdateStatus(c, coord)
		})
	}
}

func ListAlerts(c *gin.Context, coord *services.Coordinator) {
	items, err := coord.Alerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": items})
}

func CreateAlert(c *gin.Context, coord *services.Coordinator) {
	var req dto.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	date, err := dto.ParseDate(req.Date, coord.Location())
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	al, err := coord.CreateAlert(c.Request.Context(), model.Alert{
		Kind:        model.AlertKind(req.Type),
		Company:     strings.TrimSpace(req.Company),
		Date:        date,
		Agency:      req.Agency,
		Step:        req.Step,
		Description: req.Description,
		Action:      req.Action,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Alert created successfully",
		"alert":   al,
	})
}

func UpdateAlert(c *gin.Context, coord *services.Coordinator) {
	var req dto.UpdateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	patch := model.AlertPatch{
		Company:     req.Company,
		Agency:      req.Agency,
		Step:        req.Step,
		Description: req.Description,
		Action:      req.Action,
	}
	if req.Type != nil {
		kind := model.AlertKind(*req.Type)
		patch.Kind = &kind
	}
	if req.Date != nil {
		date, err := dto.ParseDate(*req.Date, coord.Location())
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		patch.Date = &date
	}

	al, err := coord.UpdateAlert(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Alert updated successfully",
		"alert":   al,
	})
}

func DeleteAlert(c *gin.Context, coord *services.Coordinator) {
	if err := coord.DeleteAlert(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Alert deleted successfully"})
}

func UpdateStatus(c *gin.Context, coord *services.Coordinator) {
	var req dto.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	al, err := coord.SetAlertStatus(c.Request.Context(), c.Param("id"), model.Status(req.Status))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Alert status updated",
		"alert":   al,
	})
}
