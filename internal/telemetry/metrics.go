package telemetry

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/teamkrews/krews-chat"

// ChatRoomMetrics groups the counters recorded by the chat room orchestrator.
type ChatRoomMetrics struct {
	RoomsCreated       metric.Int64Counter
	MembershipsCreated metric.Int64Counter
	LastMessageUpdates metric.Int64Counter
	NewStateUpdates    metric.Int64Counter
}

// NewChatRoomMetrics builds counters on the global meter provider. Until Init runs
// the global provider is a no-op, so this is safe in tests.
func NewChatRoomMetrics() *ChatRoomMetrics {
	meter := otel.Meter(instrumentationName)
	return &ChatRoomMetrics{
		RoomsCreated: counter(meter, "chat_rooms_created_total",
			"Chat rooms created"),
		MembershipsCreated: counter(meter, "chat_room_users_created_total",
			"Chat room memberships created"),
		LastMessageUpdates: counter(meter, "chat_room_last_message_updates_total",
			"Memberships whose last message was rewritten"),
		NewStateUpdates: counter(meter, "chat_room_new_state_updates_total",
			"Memberships whose new-message state was written"),
	}
}

// counter falls back to a no-op counter when the meter rejects the instrument.
func counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		slog.Warn("failed to create counter", "name", name, "error", err)
		return noop.Int64Counter{}
	}
	return c
}

func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
