package notify

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/metrics"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
)

// Dispatcher hands breach messages to a Channel. Every message gets its own
// goroutine so a slow send never holds up another one, and Dispatch returns
// as soon as that goroutine is started. Sends are attempted once; a failed
// send is logged and dropped.
type Dispatcher struct {
	channel   Channel
	recipient string
	sender    string

	wg sync.WaitGroup

	dispatched atomic.Uint64
	sent       atomic.Uint64
	failed     atomic.Uint64
}

type DispatcherConfig struct {
	Channel   Channel
	Recipient string
	Sender    string
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	return &Dispatcher{
		channel:   cfg.Channel,
		recipient: cfg.Recipient,
		sender:    cfg.Sender,
	}
}

func (d *Dispatcher) Dispatch(msg models.BreachMessage) {
	d.dispatched.Add(1)
	d.wg.Add(1)
	go d.send(msg)
}

func (d *Dispatcher) send(msg models.BreachMessage) {
	defer d.wg.Done()

	logger := common.GetLoggerWith(
		common.LoggerNameNotify,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDispatch),
	)

	defer func() {
		if r := recover(); r != nil {
			d.failed.Add(1)
			metrics.NotificationsTotal.WithLabelValues(metrics.StatusFailed).Inc()
			metrics.PanicsRecovered.WithLabelValues("dispatcher").Inc()
			logger.Error("Notification send panicked",
				zap.String("reading_id", msg.ReadingID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		}
	}()

	metrics.NotificationsInFlight.Inc()
	defer metrics.NotificationsInFlight.Dec()

	start := time.Now()
	receipt, err := d.channel.Send(context.Background(), d.recipient, d.sender, msg.Body)
	metrics.NotificationSendDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		d.failed.Add(1)
		metrics.NotificationsTotal.WithLabelValues(metrics.StatusFailed).Inc()
		logger.Error("Notification failed",
			zap.String("reading_id", msg.ReadingID),
			zap.Error(err),
		)
		return
	}

	d.sent.Add(1)
	metrics.NotificationsTotal.WithLabelValues(metrics.StatusSent).Inc()
	logger.Info("Notification sent",
		zap.String("reading_id", msg.ReadingID),
		zap.String("confirmation_token", receipt.ConfirmationToken),
	)
}

// Wait blocks until every send started so far has finished. Used on
// shutdown and in tests; the ingestion path never calls it.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) Stats() Stats {
	return Stats{
		Dispatched: d.dispatched.Load(),
		Sent:       d.sent.Load(),
		Failed:     d.failed.Load(),
	}
}

type Stats struct {
	Dispatched uint64
	Sent       uint64
	Failed     uint64
}
