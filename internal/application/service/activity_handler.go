package service

import (
	"context"
	"sort"

	"github.com/techvibe/backoffice/internal/application/dispatcher"
	"github.com/techvibe/backoffice/internal/domain/event"
)

// ActivityEventTypes are the back-office changes written to the activity log
var ActivityEventTypes = []event.Type{
	event.TypeDocumentSaved,
	event.TypeDocumentDeleted,
	event.TypeDocumentStatus,
	event.TypeQuotationConverted,
	event.TypePaymentRecorded,
}

// NewActivityLogHandler records each event as one structured log line.
// Payload keys are emitted in sorted order.
func NewActivityLogHandler(logger Logger) dispatcher.Handler {
	return func(ctx context.Context, evt *event.Event) error {
		kv := []interface{}{
			"event_type", evt.Type.String(),
			"event_id", evt.ID,
			"aggregate_type", evt.AggregateType,
			"aggregate_id", evt.AggregateID,
			"correlation_id", evt.CorrelationID,
		}

		keys := make([]string, 0, len(evt.Payload))
		for k := range evt.Payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			kv = append(kv, k, evt.Payload[k])
		}

		logger.Info("Activity", kv...)
		return nil
	}
}
