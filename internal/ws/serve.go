package ws

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/joshua-takyi/rendez/internal/helpers"
)

// TokenValidator checks an access token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*helpers.CustomClaims, error)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origins are enforced by the token check
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS upgrades GET /ws/:user_id. The token comes from the token query
// parameter or a bearer Authorization header and its subject must equal
// user_id; otherwise the socket is closed with 1008 before registration.
func ServeWS(hub *Hub, tokens TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		userID := c.Param("user_id")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
			return
		}

		token := tokenFromRequest(c)
		claims, err := tokens.ValidateToken(token)
		if err != nil || claims.Subject != userID || userID == "" {
			reason := "Authentication failed"
			if err == nil {
				reason = "Token does not match user"
			}
			logger.Warn("websocket rejected", "user_id", userID, "reason", reason)
			rejectPolicy(conn, reason)
			return
		}

		logger.Info("websocket connected", "user_id", userID, "remote_addr", c.ClientIP())
		newClient(hub, conn, userID, logger).serve()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if token := c.Query("token"); token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

func rejectPolicy(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	_ = conn.Close()
}
