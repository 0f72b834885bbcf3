package worker

import (
	"github.com/spec-kit/fieldreport-auth/internal/service"
)

// StartEventForwarder registers the forwarding handlers.
func StartEventForwarder(forwarder *service.EventForwarder) {
	if forwarder == nil {
		return
	}
	forwarder.RegisterHandlers()
}
