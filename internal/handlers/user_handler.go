package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

func GetUser(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := us.GetProfile(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, ""))
	}
}

func UpdateUser(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		var update models.UserUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			badRequest(c, err)
			return
		}

		user, err := us.UpdateProfile(c.Request.Context(), id, &update)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "profile updated"))
	}
}

func PotentialMatches(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		candidates, err := us.PotentialMatches(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(candidates, ""))
	}
}

func SearchUsers(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := currentClaims(c)
		var callerID string
		if claims != nil {
			callerID = claims.UserID
		}
		users, err := us.SearchByName(c.Request.Context(), c.Query("query"), callerID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(users, ""))
	}
}

func SetUserInterests(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		var req struct {
			Interests []string `json:"interests" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		if err := us.SetInterests(c.Request.Context(), id, req.Interests); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "interests updated"))
	}
}
