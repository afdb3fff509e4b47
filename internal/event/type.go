package event

const (
	// SwapExchange carries the events this service publishes.
	SwapExchange = "swap.events"

	// UserEventsExchange carries the upstream events this service consumes.
	UserEventsExchange = "user-events"

	consumerQueue = "swap-service-events"
)
