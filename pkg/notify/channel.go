package notify

import (
	"context"

	"liyu1981.xyz/thp-sensor-service/pkg/models"
)

//go:generate mockgen -source=channel.go -destination=mocks/mock_channel.go -package=mocks

// Channel delivers a text message to a single recipient. Implementations must
// be safe for concurrent use, the dispatcher calls Send from many goroutines.
type Channel interface {
	Send(ctx context.Context, recipient, sender, body string) (models.DeliveryReceipt, error)
}
