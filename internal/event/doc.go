// Package event provides the in-process notification bus that decouples the
// engine from its observers (UI layers, loggers, plugins).
//
// Handlers subscribe to a topic and choose sync or async delivery. Sync
// handlers run in the publisher's goroutine; async handlers run on a small
// worker pool fed by a bounded queue, so a slow observer never stalls an
// edit. When the queue is full the event is dropped and counted, never
// blocked on.
//
//	bus := event.NewBus()
//	_ = bus.Start()
//	defer bus.Stop(ctx)
//
//	sub, _ := bus.SubscribeFunc("history.changed", onChange)
//	defer bus.Unsubscribe(sub)
//
//	_ = bus.Publish(ctx, "history.changed", payload)
package event
