package service

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"lingua_backend/pkg/logger"
	"lingua_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	shardCount     = 32

	ViewChannel    = "view_invalidation"
	TypeViewsStale = "VIEWS_STALE"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type StaleViews struct {
	Paths []string `json:"paths"`
}

// PubSubMessage 跨实例广播的消息体
type PubSubMessage struct {
	UserID  uint            `json:"userId"`
	Payload json.RawMessage `json:"payload"`
}

// ViewPublisher 通知某个用户的页面数据已过期
type ViewPublisher interface {
	Publish(ctx context.Context, userID uint, paths []string) error
}

type Client struct {
	Hub     *ViewHub
	Conn    *websocket.Conn
	Send    chan []byte
	UserID  uint
	Limiter *rate.Limiter
}

// readPump 客户端只需要维持心跳，上行消息直接丢弃
func (c *Client) readPump() {
	defer func() {
		c.Hub.removeClient(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Warn("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}
		// 限流，超出后断开连接
		if !c.Limiter.Allow() {
			logger.Log.Warn("WebSocket client exceeded rate limit", zap.Uint("userId", c.UserID))
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type shard struct {
	clients map[uint]map[*Client]struct{}
	mu      sync.RWMutex
}

// ViewHub 维护本实例的 websocket 连接，通过 Redis 在多实例间转发失效通知。
// Redis 为空时只在本地投递
type ViewHub struct {
	shards [shardCount]*shard
	Redis  *redis.Client
}

func NewViewHub(rdb *redis.Client) *ViewHub {
	h := &ViewHub{Redis: rdb}
	for i := 0; i < shardCount; i++ {
		h.shards[i] = &shard{
			clients: make(map[uint]map[*Client]struct{}),
		}
	}
	return h
}

func (h *ViewHub) getShard(userID uint) *shard {
	return h.shards[userID%shardCount]
}

// Run 订阅 Redis 频道并投递到本地连接，ctx 取消后返回
func (h *ViewHub) Run(ctx context.Context) {
	if h.Redis == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.Redis.Subscribe(ctx, ViewChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var psMsg PubSubMessage
			if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
				logger.Log.Error("PubSub unmarshal error", zap.Error(err))
				continue
			}
			h.deliver(psMsg.UserID, psMsg.Payload)
		}
	}
}

// Publish 广播 VIEWS_STALE 消息
func (h *ViewHub) Publish(ctx context.Context, userID uint, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	msgBytes, err := json.Marshal(WSMessage{Type: TypeViewsStale, Data: StaleViews{Paths: paths}})
	if err != nil {
		return err
	}

	if h.Redis == nil {
		h.deliver(userID, msgBytes)
		return nil
	}

	payload, err := json.Marshal(PubSubMessage{UserID: userID, Payload: msgBytes})
	if err != nil {
		return err
	}
	return h.Redis.Publish(ctx, ViewChannel, payload).Err()
}

func (h *ViewHub) deliver(userID uint, payload []byte) {
	s := h.getShard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients[userID] {
		select {
		case client.Send <- payload:
		default:
			logger.Log.Debug("Dropping view message for slow client", zap.Uint("userId", userID))
		}
	}
}

func (h *ViewHub) addClient(c *Client) {
	s := h.getShard(c.UserID)
	s.mu.Lock()
	if s.clients[c.UserID] == nil {
		s.clients[c.UserID] = make(map[*Client]struct{})
	}
	s.clients[c.UserID][c] = struct{}{}
	s.mu.Unlock()
	monitoring.ViewConnections.Inc()
}

func (h *ViewHub) removeClient(c *Client) {
	s := h.getShard(c.UserID)
	s.mu.Lock()
	defer s.mu.Unlock()
	conns, ok := s.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(s.clients, c.UserID)
	}
	close(c.Send)
	monitoring.ViewConnections.Dec()
}

// ClientCount 当前实例上该用户的连接数
func (h *ViewHub) ClientCount(userID uint) int {
	s := h.getShard(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[userID])
}

// Stop 关闭所有连接
func (h *ViewHub) Stop() {
	closed := 0
	for i := 0; i < shardCount; i++ {
		s := h.shards[i]
		s.mu.Lock()
		for userID, conns := range s.clients {
			for client := range conns {
				close(client.Send)
				closed++
			}
			delete(s.clients, userID)
		}
		s.mu.Unlock()
	}
	monitoring.ViewConnections.Set(0)
	logger.Log.Info("ViewHub stopped", zap.Int("closedConnections", closed))
}

func ServeWs(hub *ViewHub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &Client{
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 16),
		UserID:  userID,
		Limiter: rate.NewLimiter(rate.Limit(5), 10),
	}
	hub.addClient(client)

	go client.writePump()
	go client.readPump()
}
