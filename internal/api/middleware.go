package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/frago0312/fg-ripetizioni/internal/auth"
	"github.com/frago0312/fg-ripetizioni/internal/student"
)

// RequireTutor ensures the authenticated account is the tutor.
// It MUST be used after auth.AuthRequired middleware.
func RequireTutor(studentService student.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		st, err := studentService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account not found"})
			return
		}

		if !st.IsTutor {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: tutor access required"})
			return
		}

		c.Next()
	}
}
