package worker

import (
	"go.uber.org/zap"

	"github.com/orta-study/crm-backend/internal/events"
	"github.com/orta-study/crm-backend/internal/service"
)

// StartNotificationWorker subscribes the notification service to lead events.
// Handlers run synchronously on the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("lead notifications enabled", zap.Strings("events", []string{
			string(events.EventLeadCreated),
			string(events.EventLeadStatusChanged),
			string(events.EventLeadAssigned),
			string(events.EventLeadDeleted),
		}))
	}
}
