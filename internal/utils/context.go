package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/recruitdesk/recruitdesk/internal/middleware"
	"github.com/recruitdesk/recruitdesk/internal/types"
)

func GetCurrentActor(ctx *gin.Context) (middleware.AuthenticatedActor, error) {
	actor, exists := ctx.Get(types.ContextActorKey)

	if !exists {
		return middleware.AuthenticatedActor{}, fmt.Errorf("actor not authenticated")
	}

	authenticatedActor, ok := actor.(middleware.AuthenticatedActor)

	if !ok {
		return middleware.AuthenticatedActor{}, fmt.Errorf("invalid actor type in context")
	}

	return authenticatedActor, nil
}
