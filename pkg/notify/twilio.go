package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
)

// twilioAPI is the slice of *openapi.ApiService the channel needs.
type twilioAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
	FetchAccount(Sid string) (*openapi.ApiV2010Account, error)
}

// TwilioChannel sends SMS through the Twilio REST API. The underlying client
// is an http.Client and is shared across concurrent sends.
type TwilioChannel struct {
	api        twilioAPI
	accountSID string
}

func NewTwilioChannel(accountSID, authToken string) *TwilioChannel {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioChannel{api: client.Api, accountSID: accountSID}
}

func (c *TwilioChannel) Send(ctx context.Context, recipient, sender, body string) (models.DeliveryReceipt, error) {
	if err := ctx.Err(); err != nil {
		return models.DeliveryReceipt{}, err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(recipient)
	params.SetFrom(sender)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return models.DeliveryReceipt{}, fmt.Errorf("twilio create message: %w", err)
	}
	if resp == nil || resp.Sid == nil {
		return models.DeliveryReceipt{}, errors.New("twilio create message: response carries no sid")
	}
	return models.DeliveryReceipt{ConfirmationToken: *resp.Sid}, nil
}

// Verify fetches the account to prove the credentials work. It is only called
// at startup, where a failure is fatal.
func (c *TwilioChannel) Verify(attempts uint, delay time.Duration) error {
	logger := common.GetLoggerWith(
		common.LoggerNameNotify,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryChannel),
	)

	err := retry.Do(
		func() error {
			_, err := c.api.FetchAccount(c.accountSID)
			return err
		},
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("Twilio account check failed", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return fmt.Errorf("twilio account check: %w", err)
	}

	logger.Info("Twilio account verified")
	return nil
}
