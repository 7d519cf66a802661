package services

import (
	"context"
	"log/slog"

	"github.com/mx-styles/library-management-system/internal/models"
	repo "github.com/mx-styles/library-management-system/internal/repository"
	"github.com/mx-styles/library-management-system/internal/worker"
)

// AuditTrail records lending and admin events without blocking the
// request path; writes go through the worker pool.
type AuditTrail struct {
	logs repo.AuditLogs
	wp   *worker.Pool
}

func NewAuditTrail(logs repo.AuditLogs, wp *worker.Pool) *AuditTrail {
	return &AuditTrail{logs: logs, wp: wp}
}

func (a *AuditTrail) Record(entityType, entityID, action string, details map[string]any) {
	if a == nil {
		return
	}
	l := models.AuditLog{
		EntityType: entityType,
		EntityID:   &entityID,
		Action:     action,
		Details:    details,
	}
	a.wp.Submit(func() {
		if err := a.logs.Create(context.Background(), l); err != nil {
			slog.Error("audit write", "entity", entityType, "action", action, "err", err)
		}
	})
}
