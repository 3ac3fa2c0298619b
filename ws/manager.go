package ws

import (
	"sync"

	"resumehub/internal/logger"
)

// Manager отслеживает активные WebSocket-подключения по userID.
// Один пользователь может держать несколько вкладок, поэтому
// значение — множество клиентов.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			if m.clients[client.UserID] == nil {
				m.clients[client.UserID] = make(map[*Client]struct{})
			}
			m.clients[client.UserID][client] = struct{}{}
			m.mu.Unlock()
			logger.Debug("WebSocket client connected", "user_id", client.UserID)

		case client := <-m.unregister:
			m.mu.Lock()
			if set, ok := m.clients[client.UserID]; ok {
				if _, ok := set[client]; ok {
					client.closeSend()
					delete(set, client)
					if len(set) == 0 {
						delete(m.clients, client.UserID)
					}
				}
			}
			m.mu.Unlock()
			logger.Debug("WebSocket client disconnected", "user_id", client.UserID)
		}
	}
}

// SendToUser доставляет сообщение на все подключения пользователя.
func (m *Manager) SendToUser(userID string, message any) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for client := range m.clients[userID] {
		if !client.enqueue(message) {
			// Канал заполнен или уже закрыт, соединение считается мертвым
			go func(c *Client) { m.unregister <- c }(client)
		}
	}
}

// ClientCount возвращает количество активных подключений.
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, set := range m.clients {
		n += len(set)
	}
	return n
}

// IsConnected проверяет, есть ли у пользователя активное подключение.
func (m *Manager) IsConnected(userID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients[userID]) > 0
}
