package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	actorIDKey  = contextKey("actorID")
	tenantIDKey = contextKey("tenantID")
)

// GetActorIDFromContext retrieves the authenticated actor (token subject) from the request.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorID, ok := c.Request.Context().Value(actorIDKey).(string)
	return actorID, ok && actorID != ""
}

// GetTenantIDFromContext retrieves the tenant the authenticated actor is acting for.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	tenantID, ok := c.Request.Context().Value(tenantIDKey).(string)
	return tenantID, ok && tenantID != ""
}

func withIdentity(ctx context.Context, actorID, tenantID string) context.Context {
	ctx = context.WithValue(ctx, actorIDKey, actorID)
	return context.WithValue(ctx, tenantIDKey, tenantID)
}
