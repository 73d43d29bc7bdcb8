package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/enquiry-console/internal/service"
)

// StartNotificationWorker subscribes the notification service to lead events.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker subscribed")
}
