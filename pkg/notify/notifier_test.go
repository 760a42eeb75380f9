package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
	"liyu1981.xyz/thp-sensor-service/pkg/notify/mocks"
)

func TestCheckAndNotify_NoBreachNoSend(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	channel := mocks.NewMockChannel(ctrl)
	channel.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	d := NewDispatcher(DispatcherConfig{Channel: channel})
	n := NewNotifier(testLimits, NewEvaluator(manila(t)), d)

	n.CheckAndNotify(testReading(25, 50, 1000))
	n.CheckAndNotify(testReading(30, 70, 1020))
	d.Wait()

	assert.Equal(t, Stats{}, d.Stats())
}

func TestCheckAndNotify_BreachSendsBody(t *testing.T) {
	common.SetTestLoggerNop()

	ctrl := gomock.NewController(t)
	channel := mocks.NewMockChannel(ctrl)

	d := NewDispatcher(DispatcherConfig{Channel: channel, Recipient: testRecipient, Sender: testSender})
	n := NewNotifier(testLimits, NewEvaluator(manila(t)), d)

	reading := testReading(31, 50, 1000)
	want, _ := n.evaluator.Evaluate(reading, testLimits)

	channel.EXPECT().
		Send(gomock.Any(), testRecipient, testSender, want.Body).
		Return(models.DeliveryReceipt{ConfirmationToken: "SM1"}, nil).
		Times(1)

	n.CheckAndNotify(reading)
	n.Dispatcher().Wait()

	assert.Equal(t, uint64(1), d.Stats().Sent)
}
