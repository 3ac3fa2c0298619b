package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientEnqueue_AfterClose(t *testing.T) {
	t.Parallel()

	c := &Client{UserID: "user-1", send: make(chan any, 1)}

	assert.True(t, c.enqueue("first"))
	assert.False(t, c.enqueue("overflow"), "очередь на один элемент заполнена")

	c.closeSend()
	c.closeSend() // повторное закрытие безопасно
	assert.False(t, c.enqueue("after close"))
}

func TestManagerSendToUser_DeadClient(t *testing.T) {
	t.Parallel()

	m := NewManager()
	go m.Run()

	c := &Client{UserID: "user-1", send: make(chan any), manager: m}
	m.register <- c
	assert.Eventually(t, func() bool { return m.IsConnected("user-1") },
		time.Second, 10*time.Millisecond)

	// Очередь закрыта, но отправка не должна паниковать
	c.closeSend()
	m.SendToUser("user-1", OutgoingMessage{Type: "typing"})

	assert.Eventually(t, func() bool { return !m.IsConnected("user-1") },
		time.Second, 10*time.Millisecond)
}
