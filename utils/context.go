package utils

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type rqIDKey struct{}

const RqIDKey = "rqID"

func GetRequestIDFromCtx(ctx context.Context) string {
	rqID, ok := ctx.Value(rqIDKey{}).(string)
	if !ok {
		return ""
	}
	return rqID
}

// CtxWithNewRqID returns a copy of ctx tagged with a fresh request id.
// Used for background work like sweeps that has no incoming request.
func CtxWithNewRqID(ctx context.Context) context.Context {
	return context.WithValue(ctx, rqIDKey{}, uuid.NewString())
}

func CreateCtxWithRqID(c *gin.Context) context.Context {
	rqID, ok := c.Get(RqIDKey)
	if str, isStr := rqID.(string); ok && isStr {
		return context.WithValue(c.Request.Context(), rqIDKey{}, str)
	}
	return CtxWithNewRqID(c.Request.Context())
}
