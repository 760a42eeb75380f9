package notify

import (
	"go.uber.org/zap"
	"liyu1981.xyz/thp-sensor-service/pkg/common"
	"liyu1981.xyz/thp-sensor-service/pkg/metrics"
	"liyu1981.xyz/thp-sensor-service/pkg/models"
	"liyu1981.xyz/thp-sensor-service/pkg/threshold"
)

// Notifier is the single entry point the ingestion path calls after a reading
// has been stored.
type Notifier struct {
	limits     threshold.Config
	evaluator  *Evaluator
	dispatcher *Dispatcher
}

func NewNotifier(limits threshold.Config, evaluator *Evaluator, dispatcher *Dispatcher) *Notifier {
	return &Notifier{
		limits:     limits,
		evaluator:  evaluator,
		dispatcher: dispatcher,
	}
}

// CheckAndNotify returns without waiting for the messaging channel.
func (n *Notifier) CheckAndNotify(reading *models.Reading) {
	msg, ok := n.evaluator.Evaluate(reading, n.limits)
	if !ok {
		return
	}

	for _, m := range msg.Breaches {
		metrics.ThresholdBreachesTotal.WithLabelValues(string(m)).Inc()
	}

	common.GetLoggerWith(
		common.LoggerNameNotify,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryThreshold),
	).Info("Threshold breached",
		zap.String("reading_id", reading.ID),
		zap.String("location", reading.Location),
		zap.Any("breaches", msg.Breaches),
	)

	n.dispatcher.Dispatch(msg)
}

func (n *Notifier) Dispatcher() *Dispatcher {
	return n.dispatcher
}
