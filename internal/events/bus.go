// Package events broadcasts state changes of the clock to observers such
// as the preview socket and the metrics.
package events

import (
	"github.com/kelindar/event"
)

// Bus wraps a kelindar/event dispatcher. Handlers run asynchronously and
// never feed back into the engine directly.
type Bus struct {
	dispatcher *event.Dispatcher
}

func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// Publish sends ev to the subscribers of its type. A nil bus drops it.
func (b *Bus) Publish(ev Event) {
	if b == nil {
		return
	}
	switch e := ev.(type) {
	case ModeChanged:
		event.Publish(b.dispatcher, e)
	case BrightnessChanged:
		event.Publish(b.dispatcher, e)
	case SceneChanged:
		event.Publish(b.dispatcher, e)
	case AnimationFinished:
		event.Publish(b.dispatcher, e)
	case SettingsSaved:
		event.Publish(b.dispatcher, e)
	}
}

// Subscribe registers handler, whose parameter type selects the events it
// receives. It returns the unsubscribe function; unknown handler types get
// a no-op.
func (b *Bus) Subscribe(handler any) func() {
	switch h := handler.(type) {
	case func(ModeChanged):
		return event.Subscribe(b.dispatcher, h)
	case func(BrightnessChanged):
		return event.Subscribe(b.dispatcher, h)
	case func(SceneChanged):
		return event.Subscribe(b.dispatcher, h)
	case func(AnimationFinished):
		return event.Subscribe(b.dispatcher, h)
	case func(SettingsSaved):
		return event.Subscribe(b.dispatcher, h)
	default:
		return func() {}
	}
}
