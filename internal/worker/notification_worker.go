package worker

import (
	"github.com/spec-kit/complaint-tracker/internal/service"
)

// StartNotificationWorker registers notification handlers on the event
// dispatcher; delivery runs on the dispatcher's own goroutine.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
