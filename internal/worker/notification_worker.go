package worker

import (
	"github.com/spec-kit/complaint-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// complaint lifecycle events. Dispatch is synchronous; there is no goroutine
// to stop on shutdown.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
