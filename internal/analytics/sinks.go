// internal/analytics/sinks.go

package analytics

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/archis1405/Lokal-Assessment/internal/domain"
	"github.com/archis1405/Lokal-Assessment/pkg/metrics"
)

// LogrusSink writes every event to the application log
type LogrusSink struct {
	logger logrus.FieldLogger
}

func NewLogrusSink(logger logrus.FieldLogger) *LogrusSink {
	return &LogrusSink{logger: logger}
}

func (s *LogrusSink) Emit(_ context.Context, event domain.Event) {
	fields := logrus.Fields{"event": event.Name}
	for k, v := range event.Params {
		fields[k] = v
	}
	s.logger.WithFields(fields).Info("[Analytics] " + event.Name)
}

// PrometheusSink turns events into otp_service_* counters
type PrometheusSink struct{}

func (PrometheusSink) Emit(_ context.Context, event domain.Event) {
	switch event.Name {
	case EventOTPGenerated:
		metrics.RecordOTPGeneration()
	case EventOTPValidationSuccess:
		metrics.RecordOTPValidation("success")
	case EventOTPValidationFailure:
		reason, _ := event.Params["reason"].(string)
		metrics.RecordOTPValidation(reason)
	case EventLogout:
		metrics.RecordLogout()
	}
}

// MultiSink fans an event out to every sink. A panicking sink is logged and
// skipped so the others still receive the event.
type MultiSink struct {
	sinks  []domain.EventSink
	logger logrus.FieldLogger
}

func NewMultiSink(logger logrus.FieldLogger, sinks ...domain.EventSink) *MultiSink {
	return &MultiSink{sinks: sinks, logger: logger}
}

// With returns a copy that also delivers to extra
func (m *MultiSink) With(extra ...domain.EventSink) *MultiSink {
	sinks := make([]domain.EventSink, 0, len(m.sinks)+len(extra))
	sinks = append(sinks, m.sinks...)
	sinks = append(sinks, extra...)
	return &MultiSink{sinks: sinks, logger: m.logger}
}

func (m *MultiSink) Emit(ctx context.Context, event domain.Event) {
	for _, sink := range m.sinks {
		m.deliver(ctx, sink, event)
	}
}

func (m *MultiSink) deliver(ctx context.Context, sink domain.EventSink, event domain.Event) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.WithFields(logrus.Fields{
				"event": event.Name,
				"sink":  fmt.Sprintf("%T", sink),
			}).Warnf("[Analytics] Failed to deliver event: %v", r)
		}
	}()
	sink.Emit(ctx, event)
}
