package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
)

func AdminLogin(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		tok, err := as.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(tok, "login successful"))
	}
}

func AdminStats(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := as.Stats(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(stats, ""))
	}
}

func adminPage(c *gin.Context) (int, int, bool) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return 0, 0, false
	}
	limit, ok := queryInt(c, "limit", services.DefaultAdminPageSize)
	if !ok {
		return 0, 0, false
	}
	skip, limit = services.ClampAdminPage(skip, limit)
	return skip, limit, true
}

func AdminListUsers(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit, ok := adminPage(c)
		if !ok {
			return
		}
		users, total, err := as.ListUsers(c.Request.Context(), skip, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(users, skip, limit, total))
	}
}

func AdminDeleteUser(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := as.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "user deleted"))
	}
}

// AdminVerifyUser sets is_verified; an empty body verifies.
func AdminVerifyUser(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := struct {
			Verified *bool `json:"verified"`
		}{}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
		}
		verified := req.Verified == nil || *req.Verified

		user, err := as.VerifyUser(c.Request.Context(), c.Param("id"), verified)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "user verification updated"))
	}
}

// AdminBanUser sets is_banned; an empty body bans.
func AdminBanUser(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := struct {
			Banned *bool `json:"banned"`
		}{}
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				badRequest(c, err)
				return
			}
		}
		banned := req.Banned == nil || *req.Banned

		user, err := as.BanUser(c.Request.Context(), c.Param("id"), banned)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(user, "user ban updated"))
	}
}

func AdminListMatches(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip, limit, ok := adminPage(c)
		if !ok {
			return
		}
		matches, total, err := as.ListMatches(c.Request.Context(), skip, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.PaginatedResponse(matches, skip, limit, total))
	}
}

func AdminDeleteMatch(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := as.DeleteMatch(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "match deleted"))
	}
}

func AdminUsersGrowth(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		days, ok := queryInt(c, "days", services.DefaultGrowthDays)
		if !ok {
			return
		}
		points, err := as.UsersGrowth(c.Request.Context(), days)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(points, ""))
	}
}

func AdminMatchRate(as *services.AdminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rate, err := as.MatchRate(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(rate, ""))
	}
}
