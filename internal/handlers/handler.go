package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/middleware"
	"github.com/joshua-takyi/rendez/internal/models"
)

// respondError writes err with the status its kind maps to. Errors without
// a client-facing message are attached to the context for ErrorHandler to
// log and answered with a generic body.
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	msg := apperr.Message(err)
	if msg == "" || status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "Internal server error"
		if status == http.StatusGatewayTimeout {
			msg = "request timed out"
		}
	}
	c.JSON(status, models.ErrorResponse(msg))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse(err.Error()))
}

func currentClaims(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	v, ok := c.Get(middleware.ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*helpers.EnhancedClaims)
	return claims, ok && claims != nil
}

// authorizeFor writes 401/403 and returns false unless the caller may act
// for userID.
func authorizeFor(c *gin.Context, userID string) bool {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return false
	}
	if !claims.CanActFor(userID) {
		c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
		return false
	}
	return true
}

// authorizeAny is authorizeFor over several users; any one of them suffices.
func authorizeAny(c *gin.Context, userIDs ...string) bool {
	claims, ok := currentClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse("unauthorized"))
		return false
	}
	for _, id := range userIDs {
		if claims.CanActFor(id) {
			return true
		}
	}
	c.JSON(http.StatusForbidden, models.ErrorResponse("access denied"))
	return false
}

func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(key+" must be an integer"))
		return 0, false
	}
	return n, true
}
