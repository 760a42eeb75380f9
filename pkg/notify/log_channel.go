package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
)

// LogChannel writes messages to the log instead of sending them. Meant for
// development setups without messaging credentials.
type LogChannel struct{}

func (LogChannel) Send(ctx context.Context, recipient, sender, body string) (models.DeliveryReceipt, error) {
	token := uuid.NewString()

	common.GetLoggerWith(
		common.LoggerNameNotify,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryChannel),
	).Info("Mock send notification",
		zap.String("recipient", recipient),
		zap.String("sender", sender),
		zap.String("body", body),
		zap.String("confirmation_token", token),
	)

	return models.DeliveryReceipt{ConfirmationToken: token}, nil
}
