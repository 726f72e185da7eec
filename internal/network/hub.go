package network

import (
	"planboard/pkg/api"
	"sync"
)

// Broadcaster занимается только рассылкой сообщений подписчикам
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: сторона -> личный канал клиента
	subscribers map[int]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[int]chan api.ServerResponse),
	}
}

// Register создает личный канал для стороны.
// Прежнее подключение той же стороны вытесняется (его канал закрывается).
func (b *Broadcaster) Register(side int) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[side]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[side] = ch
	return ch
}

// Unregister удаляет подписчика, если канал всё ещё его.
// Вытесненный клиент не должен отписать нового: тогда возвращается false.
func (b *Broadcaster) Unregister(side int, ch chan api.ServerResponse) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cur, ok := b.subscribers[side]; ok && cur == ch {
		close(cur)
		delete(b.subscribers, side)
		return true
	}
	return false
}

// SendTo отправляет сообщение одной стороне (Unicast)
func (b *Broadcaster) SendTo(side int, msg api.ServerResponse) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[side]; ok {
		select {
		case ch <- msg:
			return true
		default:
			// Канал переполнен, клиент не успевает читать
		}
	}
	return false
}

// Broadcast отправляет всем
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// HasSubscriber проверяет, подключен ли клиент стороны.
// Для отключенных сторон состояние не собирается.
func (b *Broadcaster) HasSubscriber(side int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[side]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
