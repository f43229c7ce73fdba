package notify

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	maxConnsPerUser = 10
	writeWait       = 10 * time.Second
)

// Hub fans toasts out to the websocket connections of each user.
type Hub struct {
	mu    sync.Mutex
	conns map[string]map[*websocket.Conn]bool
	log   logrus.FieldLogger
}

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{conns: map[string]map[*websocket.Conn]bool{}, log: log}
}

// Add registers conn for owner. It reports false when the owner already has
// the maximum number of open connections.
func (h *Hub) Add(owner string, conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[owner]; !ok {
		h.conns[owner] = map[*websocket.Conn]bool{}
	}
	if len(h.conns[owner]) >= maxConnsPerUser {
		h.log.WithField("owner", owner).Warn("max websocket connections reached")
		return false
	}
	h.conns[owner][conn] = true
	h.log.WithFields(logrus.Fields{"owner": owner, "total": len(h.conns[owner])}).Debug("websocket connection added")
	return true
}

func (h *Hub) Remove(owner string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.conns[owner]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.conns, owner)
		}
	}
}

// Connections returns the number of open connections of owner.
func (h *Hub) Connections(owner string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[owner])
}

func (h *Hub) Notify(_ context.Context, owner string, t Toast) {
	message, err := json.Marshal(t)
	if err != nil {
		h.log.WithError(err).Error("encode toast")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.conns[owner]
	if !ok {
		return
	}
	for conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.log.WithError(err).WithField("owner", owner).Warn("drop websocket connection")
			_ = conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.conns, owner)
	}
}
