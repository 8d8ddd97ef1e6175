package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "userID"

// AuthRequired 校验Bearer token,失败返回401
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := h.userFromHeader(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalAuth 有合法token时记录用户,没有也放行
func (h *Handler) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := h.userFromHeader(c); ok {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

func (h *Handler) userFromHeader(c *gin.Context) (uint, bool) {
	auth := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(auth, "Bearer ")
	if !found || token == "" {
		return 0, false
	}

	userID, err := h.auth.ParseToken(token)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// currentUserID 取中间件写入的用户ID,未登录返回0
func currentUserID(c *gin.Context) uint {
	if v, ok := c.Get(userIDKey); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
