package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

func SendMessage(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if !authorizeFor(c, req.SenderID) {
			return
		}

		msg, err := ms.SendMessage(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(msg, "message sent"))
	}
}

func GetMessage(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		msg, err := ms.GetMessage(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !authorizeAny(c, msg.SenderID, msg.ReceiverID) {
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(msg, ""))
	}
}

// ListMatchMessages pages through a match's messages, newest first.
func ListMatchMessages(ms *services.MessageService, matches *services.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		match, err := matches.GetMatch(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !authorizeAny(c, match.User1ID, match.User2ID) {
			return
		}
		limit, ok := queryInt(c, "limit", models.DefaultMessageLimit)
		if !ok {
			return
		}
		offset, ok := queryInt(c, "offset", 0)
		if !ok {
			return
		}

		messages, err := ms.ListMatchMessages(ctx, match.ID, limit, offset)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(messages, ""))
	}
}

func ListMessagesBetween(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		limit, ok := queryInt(c, "limit", models.DefaultMessageLimit)
		if !ok {
			return
		}
		messages, err := ms.ListBetween(c.Request.Context(), id, c.Param("other"), limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(messages, ""))
	}
}

// MarkMessageRead is reserved for the receiver.
func MarkMessageRead(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		msg, err := ms.GetMessage(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !authorizeFor(c, msg.ReceiverID) {
			return
		}
		read, err := ms.MarkRead(ctx, msg.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(read, "message marked as read"))
	}
}

func MarkMessageDelivered(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		msg, err := ms.GetMessage(ctx, c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if !authorizeFor(c, msg.ReceiverID) {
			return
		}
		delivered, err := ms.MarkDelivered(ctx, msg.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(delivered, "message marked as delivered"))
	}
}

func ListConversations(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		convs, err := ms.ListConversations(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(convs, ""))
	}
}

func UnreadCount(ms *services.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		n, err := ms.UnreadCount(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"unread_count": n}, ""))
	}
}
