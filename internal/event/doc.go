// Package event provides a synchronous pub-sub bus that remembers the latest
// event of each type.
//
// The board manager publishes a snapshot event after every applied mutation;
// the TUI, CLI and debug logging subscribe to it without depending on each
// other. Because the bus replays the most recent event to each new
// subscriber, a view that attaches late still renders the current board.
//
// # Main Types
//
//   - [Event]: interface providing EventType() and Timestamp()
//   - [Base]: embeddable implementation of [Event]
//   - [Bus]: synchronous dispatcher with replay-on-subscribe
//   - [Handler]: func(Event)
//
// # Thread Safety
//
// [Bus] is safe for concurrent use. Handlers run synchronously on the
// publishing goroutine with no bus lock held. A panicking handler is
// recovered and logged; the remaining handlers still run.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	id := bus.Subscribe("board.tasks", func(e event.Event) {
//	    changed := e.(board.TasksChangedEvent)
//	    render(changed.Tasks)
//	})
//	defer bus.Unsubscribe(id)
//
//	// Wildcard subscribers see every later event but get no replay.
//	bus.SubscribeAll(func(e event.Event) {
//	    logger.Debug("event", "type", e.EventType())
//	})
package event
