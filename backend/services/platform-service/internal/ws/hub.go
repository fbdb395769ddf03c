package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"chargenet/backend/services/platform-service/internal/models"
)

// StatusEvent is pushed to every subscriber when a charger transitions.
type StatusEvent struct {
	ChargerID int64                `json:"chargerId"`
	StationID int64                `json:"stationId"`
	Status    models.ChargerStatus `json:"status"`
	At        time.Time            `json:"at"`
}

// subscriber wraps one dashboard connection with its outgoing buffer.
type subscriber struct {
	id           string
	ws           *websocket.Conn
	send         chan []byte
	logger       *zap.Logger
	writeTimeout time.Duration
	onClose      func(id string)
}

func newSubscriber(id string, ws *websocket.Conn, writeTimeout time.Duration, logger *zap.Logger, onClose func(string)) *subscriber {
	return &subscriber{
		id:           id,
		ws:           ws,
		send:         make(chan []byte, 16),
		logger:       logger,
		writeTimeout: writeTimeout,
		onClose:      onClose,
	}
}

// start launches the pumps. Subscribers never send payloads; the read pump
// only services pongs and detects the close.
func (s *subscriber) start(ctx context.Context) {
	go s.writePump(ctx)
	s.readPump(ctx)
}

func (s *subscriber) readPump(ctx context.Context) {
	defer s.cleanup()
	s.ws.SetReadLimit(4096)
	s.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
	s.ws.SetPongHandler(func(string) error {
		s.ws.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if _, _, err := s.ws.ReadMessage(); err != nil {
			s.logger.Info("subscriber disconnected", zap.String("subscriber_id", s.id), zap.Error(err))
			return
		}
	}
}

func (s *subscriber) writePump(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.send:
			if !ok {
				_ = s.write(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, []byte("ping")); err != nil {
				return
			}
		}
	}
}

func (s *subscriber) enqueue(msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn("attempted to send on closed channel", zap.String("subscriber_id", s.id))
		}
	}()
	select {
	case s.send <- msg:
	default:
		s.logger.Warn("dropping status event, buffer full", zap.String("subscriber_id", s.id))
	}
}

func (s *subscriber) write(messageType int, data []byte) error {
	s.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.ws.WriteMessage(messageType, data)
}

func (s *subscriber) cleanup() {
	close(s.send)
	_ = s.ws.Close()
	if s.onClose != nil {
		s.onClose(s.id)
	}
}

// Hub fans charger status events out to all connected dashboards.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber
	logger      *zap.Logger
	now         func() time.Time
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subscribers: make(map[string]*subscriber),
		logger:      logger,
		now:         time.Now,
	}
}

func (h *Hub) add(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[sub.id] = sub
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, id)
}

// SubscriberCount reports the number of live connections.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// NotifyStatus broadcasts a charger transition to every subscriber.
func (h *Hub) NotifyStatus(charger *models.Charger) {
	event := StatusEvent{
		ChargerID: charger.ID,
		StationID: charger.StationID,
		Status:    charger.Status,
		At:        h.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode status event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subscribers {
		sub.enqueue(payload)
	}
}
