// Package status 通过 websocket 向前端推送分析进度。
package status

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/logger"
	"github.com/iWorld-y/idea_radar/app/idea_radar/pkg/metrics"
)

const (
	writeWait = 10 * time.Second
	queueSize = 32
)

// Message 推送给前端的消息
type Message struct {
	Status string `json:"status"`
}

type listener struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

// Hub 在线监听者集合，注册、注销和广播可以并发进行
type Hub struct {
	mu        sync.RWMutex
	listeners map[string]*listener
	closed    bool
	upgrader  websocket.Upgrader
}

// NewHub allowedOrigins 为空或包含 "*" 时不校验 Origin
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{listeners: make(map[string]*listener)}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWS 升级连接并阻塞到对端断开
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnf("websocket 升级失败: %v", err)
		return
	}

	l := &listener{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, queueSize),
		done: make(chan struct{}),
	}
	if !h.register(l) {
		_ = conn.Close()
		return
	}
	defer h.unregister(l)

	go h.writeLoop(l)

	// 只为感知断开，客户端发来的内容直接丢弃
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Notify 广播一条状态，慢的或已断开的监听者不会阻塞其他人
func (h *Hub) Notify(status string) {
	payload, err := json.Marshal(Message{Status: status})
	if err != nil {
		return
	}

	h.mu.RLock()
	snapshot := make([]*listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		snapshot = append(snapshot, l)
	}
	h.mu.RUnlock()

	for _, l := range snapshot {
		select {
		case <-l.done:
		case l.send <- payload:
		default:
			logger.Log.Debugf("监听者 [%s] 队列已满，丢弃状态: %s", l.id, status)
		}
	}
}

// Len 当前在线的监听者数量
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// Close 断开所有监听者，之后的连接会被直接关闭
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	all := make([]*listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		all = append(all, l)
	}
	h.mu.Unlock()

	for _, l := range all {
		h.unregister(l)
	}
}

func (h *Hub) register(l *listener) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.listeners[l.id] = l
	metrics.StatusListeners.Set(float64(len(h.listeners)))
	logger.Log.Debugf("监听者 [%s] 已连接", l.id)
	return true
}

func (h *Hub) unregister(l *listener) {
	h.mu.Lock()
	if cur, ok := h.listeners[l.id]; ok && cur == l {
		delete(h.listeners, l.id)
		metrics.StatusListeners.Set(float64(len(h.listeners)))
	}
	h.mu.Unlock()

	l.once.Do(func() {
		close(l.done)
		_ = l.conn.Close()
		logger.Log.Debugf("监听者 [%s] 已断开", l.id)
	})
}

func (h *Hub) writeLoop(l *listener) {
	for {
		select {
		case <-l.done:
			return
		case msg := <-l.send:
			_ = l.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := l.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.unregister(l)
				return
			}
		}
	}
}
