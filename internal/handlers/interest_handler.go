package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

func CreateInterest(is *services.InterestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.InterestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		interest, err := is.CreateInterest(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(interest, "interest created"))
	}
}

func ListInterests(is *services.InterestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		interests, err := is.ListInterests(c.Request.Context(), c.Query("category"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(interests, ""))
	}
}

func GetInterest(is *services.InterestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		interest, err := is.GetInterest(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(interest, ""))
	}
}

func AddUserInterest(is *services.InterestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.UserInterestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if !authorizeFor(c, req.UserID) {
			return
		}
		if err := is.AddUserInterest(c.Request.Context(), req.UserID, req.InterestID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(nil, "interest added"))
	}
}

func RemoveUserInterest(is *services.InterestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		if err := is.RemoveUserInterest(c.Request.Context(), id, c.Param("interest_id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "interest removed"))
	}
}

func ListUserInterests(is *services.InterestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		interests, err := is.ListUserInterests(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(interests, ""))
	}
}

func CommonInterests(is *services.InterestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		interests, err := is.CommonInterests(c.Request.Context(), c.Param("id"), c.Param("other"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(interests, ""))
	}
}
