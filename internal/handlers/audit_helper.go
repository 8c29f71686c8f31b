package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-site/internal/audit"
	"github.com/BruksfildServices01/barbershop-site/internal/middleware"
)

func writeAudit(
	d *audit.Dispatcher,
	actorID string,
	action string,
	entity string,
	entityID string,
	meta any,
) {
	ev := audit.Event{
		Action:   action,
		Entity:   entity,
		Metadata: meta,
	}
	if actorID != "" {
		ev.ActorID = &actorID
	}
	if entityID != "" {
		ev.EntityID = &entityID
	}
	d.Dispatch(ev)
}

// actorID is the signed-in admin set by RequireAdmin.
func actorID(c *gin.Context) string {
	return c.GetString(middleware.ContextAdminID)
}
