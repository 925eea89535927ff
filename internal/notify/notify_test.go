package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
)

func TestEmitterFansOut(t *testing.T) {
	t.Parallel()

	e := NewEmitter()

	var first, second []Notification
	cancelFirst := e.Subscribe(func(n Notification) { first = append(first, n) })
	e.Subscribe(func(n Notification) { second = append(second, n) })

	e.Notify(Notification{Level: LevelError, Message: i18n.Message{EN: "failed"}})
	assert.Len(t, first, 1)
	assert.Len(t, second, 1)

	cancelFirst()
	e.Notify(Notification{Level: LevelSuccess, Message: i18n.Message{EN: "done"}})
	assert.Len(t, first, 1)
	assert.Len(t, second, 2)
	assert.Equal(t, LevelSuccess, second[1].Level)
}

func TestDiscardIsSafe(t *testing.T) {
	t.Parallel()

	Discard.Notify(Notification{Level: LevelInfo})
}
