package main

import (
	"log/slog"

	"github.com/abh/reconciled/coordinator"
	"github.com/abh/reconciled/value"
)

// reportingConsumer logs every published value, standing in for the
// downstream system of record a deployment would configure in place of
// it. It is trivially idempotent, satisfying the consumer contract of
// spec §6 even when the same value is delivered twice.
func reportingConsumer(log *slog.Logger) coordinator.Consumer {
	return coordinator.ConsumerFunc(func(v *value.Value) error {
		if v == nil {
			log.Warn("reconciled value: conflict")
			return nil
		}
		log.Info("reconciled value", "value", int64(*v))
		return nil
	})
}
