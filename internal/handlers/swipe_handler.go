package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

func CreateSwipe(ss *services.SwipeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SwipeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if !authorizeFor(c, req.FromUserID) {
			return
		}

		res, err := ss.RecordSwipe(c.Request.Context(), req.FromUserID, req.ToUserID, req.Action)
		if err != nil {
			respondError(c, err)
			return
		}

		message := "swipe recorded"
		if res.IsMatch {
			message = "it's a match"
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{
			"swipe":    res.Swipe,
			"is_match": res.IsMatch,
			"match":    res.Match,
		}, message))
	}
}

func ListUserSwipes(ss *services.SwipeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		swipes, err := ss.ListSwipes(c.Request.Context(), id, c.Query("action"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(swipes, ""))
	}
}

func ListLikes(ss *services.SwipeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		likes, err := ss.ListLikes(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(likes, ""))
	}
}

func ListReceivedLikes(ss *services.SwipeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		users, err := ss.ListReceivedLikes(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(users, ""))
	}
}

// DeleteSwipe undoes a swipe. An existing match is kept.
func DeleteSwipe(ss *services.SwipeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		swipe, err := ss.GetSwipe(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !authorizeFor(c, swipe.FromUserID) {
			return
		}
		if err := ss.DeleteSwipe(ctx, swipe.ID); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "swipe deleted"))
	}
}
