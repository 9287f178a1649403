package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const companyIDKey = "company_id"

// CompanyScope resolves the tenant from the X-Company-ID header. Every
// route below it operates strictly inside that tenant's data.
func CompanyScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-Company-ID")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-Company-ID header required"})
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid X-Company-ID header"})
			return
		}
		c.Set(companyIDKey, id)
		c.Next()
	}
}

func companyID(c *gin.Context) uuid.UUID {
	return c.MustGet(companyIDKey).(uuid.UUID)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}
