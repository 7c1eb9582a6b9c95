package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

func GetMatch(ms *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		match, err := ms.GetMatch(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !authorizeAny(c, match.User1ID, match.User2ID) {
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(match, ""))
	}
}

func ListUserMatches(ms *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		matches, err := ms.ListUserMatches(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(matches, ""))
	}
}

// Unmatch removes the match; either participant may do so.
func Unmatch(ms *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		match, err := ms.GetMatch(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !authorizeAny(c, match.User1ID, match.User2ID) {
			return
		}
		if err := ms.DeleteMatch(ctx, match.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "match deleted"))
	}
}
