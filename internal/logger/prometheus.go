package logger

import (
	"github.com/maxaizer/job-board/internal/metrics"
	log "github.com/sirupsen/logrus"
)

// prometheusHook counts every error entry by its error type. Warnings are counted only when they
// carry an error type, a degraded favorites or session load is worth seeing on the dashboard.
type prometheusHook struct{}

func (h *prometheusHook) Fire(entry *log.Entry) error {
	errorType, ok := entry.Data[ErrorTypeField].(string)
	if !ok {
		if entry.Level == log.WarnLevel {
			return nil
		}
		errorType = "unknown"
	}

	metrics.ErrorsCounter.WithLabelValues(errorType).Inc()
	return nil
}

func (h *prometheusHook) Levels() []log.Level {
	return []log.Level{
		log.WarnLevel,
		log.ErrorLevel,
		log.FatalLevel,
		log.PanicLevel,
	}
}

func addPrometheusHook() {
	log.AddHook(&prometheusHook{})
	log.Debug("error metrics hook installed")
}
