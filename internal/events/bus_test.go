package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesTypedSubscriber(t *testing.T) {
	b := New()

	modes := make(chan ModeChanged, 1)
	levels := make(chan BrightnessChanged, 1)
	unsub := b.Subscribe(func(e ModeChanged) { modes <- e })
	defer unsub()
	defer b.Subscribe(func(e BrightnessChanged) { levels <- e })()

	b.Publish(ModeChanged{Display: 3, Animation: "fade"})

	select {
	case e := <-modes:
		assert.Equal(t, 3, e.Display)
		assert.Equal(t, "fade", e.Animation)
	case <-time.After(time.Second):
		require.Fail(t, "no ModeChanged delivered")
	}
	select {
	case <-levels:
		assert.Fail(t, "BrightnessChanged handler got a ModeChanged")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestUnknownHandlerAndNilBus(t *testing.T) {
	b := New()
	unsub := b.Subscribe(func(string) {})
	unsub()

	var nb *Bus
	nb.Publish(SettingsSaved{OK: true})
	assert.Equal(t, TypeSettingsSaved, SettingsSaved{}.Type())
}
