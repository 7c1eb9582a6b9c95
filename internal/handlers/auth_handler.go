package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		res, err := as.Register(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(res, "user registered"))
	}
}

func Login(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		res, err := as.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(res, "login successful"))
	}
}

// ForgotPassword always answers with the same message so callers cannot
// probe which addresses are registered.
func ForgotPassword(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		if err := as.ForgotPassword(c.Request.Context(), req.Email); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "if the email is registered, a reset code has been sent"))
	}
}

func ResetPassword(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		if err := as.ResetPassword(c.Request.Context(), &req); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "password has been reset"))
	}
}

func ChangePassword(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		var req services.ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}

		if err := as.ChangePassword(c.Request.Context(), id, &req); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "password changed"))
	}
}

func DeleteAccount(as *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if !authorizeFor(c, id) {
			return
		}
		if err := as.DeleteAccount(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "account deleted"))
	}
}
