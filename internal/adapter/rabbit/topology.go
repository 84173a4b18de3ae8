package rabbit

import (
	"fmt"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
	amqp "github.com/rabbitmq/amqp091-go"
)

type binding struct {
	queue string
	key   string
}

// workerBindings route each dispatch event to the queue of the flow it triggers.
var workerBindings = []binding{
	{queue: types.QueueAssignment, key: types.KeyReservationCreated},
	{queue: types.QueueSettlement, key: types.KeyReservationUpdated},
	{queue: types.QueueTelemetry, key: types.KeyDriverPosition},
	{queue: types.QueueGeofence, key: types.KeyPositionCreated},
}

// DeclareExchanges declares every exchange used by dispatch. Declarations are idempotent.
func DeclareExchanges(ch *amqp.Channel) error {
	exchanges := []struct {
		name string
		kind string
	}{
		{types.DispatchExchange, amqp.ExchangeTopic},
		{types.NotificationExchange, amqp.ExchangeTopic},
		{types.TrackingExchange, amqp.ExchangeFanout},
	}

	for _, e := range exchanges {
		if err := ch.ExchangeDeclare(e.name, e.kind, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare exchange %s: %w", e.name, err)
		}
	}
	return nil
}

// DeclareWorkerQueues declares the exchanges and the durable worker queues bound to them.
func DeclareWorkerQueues(ch *amqp.Channel) error {
	if err := DeclareExchanges(ch); err != nil {
		return err
	}

	for _, b := range workerBindings {
		if _, err := ch.QueueDeclare(b.queue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}
		if err := ch.QueueBind(b.queue, b.key, types.DispatchExchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", b.queue, err)
		}
	}
	return nil
}
