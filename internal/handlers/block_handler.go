package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

func BlockUser(bs *services.BlockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BlockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if !authorizeFor(c, req.BlockerID) {
			return
		}

		block, err := bs.BlockUser(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(block, "user blocked"))
	}
}

func UnblockUser(bs *services.BlockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		if err := bs.UnblockUser(c.Request.Context(), id, c.Param("blocked")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "user unblocked"))
	}
}

func ListBlocked(bs *services.BlockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		blocked, err := bs.ListBlocked(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(blocked, ""))
	}
}

func ReportUser(bs *services.BlockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ReportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if !authorizeFor(c, req.ReporterID) {
			return
		}

		report, err := bs.ReportUser(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(report, "report submitted"))
	}
}

func ListReports(bs *services.BlockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reports, err := bs.ListReports(c.Request.Context(), c.Query("status"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(reports, ""))
	}
}

func UpdateReportStatus(bs *services.BlockService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required,oneof=pending reviewed resolved"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		report, err := bs.UpdateReportStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(report, "report updated"))
	}
}
