package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server upgrades dashboard connections onto the status feed.
type Server struct {
	hub          *Hub
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds the ws server for /ws/status.
func NewServer(hub *Hub, writeTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		hub:          hub,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is the HTTP handler for the status feed endpoint.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	sub := newSubscriber(id, conn, s.writeTimeout, s.logger, func(id string) {
		s.hub.remove(id)
		cancel()
	})
	s.hub.add(sub)

	go sub.start(ctx)
	s.logger.Info("dashboard subscribed", zap.String("subscriber_id", id))
}
