// Package transport exposes the server's one bidirectional message
// channel per connection: a gin HTTP server upgrading /ws to a
// websocket, and a Connection abstraction the hub dispatches wire
// messages through.
package transport

import (
	"log"
	"net/http"
	"time"

	"github.com/mhurst/piznac-games-sub001/internal/wire"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// messagesPerSecond/messageBurst bound how fast one connection can
// push events at the hub, mirroring the teacher's
// WebSocketActionLimiter defaults (5/s, burst 10) against game-action
// spam.
const (
	messagesPerSecond = 5
	messageBurst      = 10
)

// Connection is the transport-agnostic handle the hub holds for one
// connected client: send it an event, or close it.
type Connection interface {
	ID() string
	Send(msg wire.Message) error
	Close() error
}

// Handler receives connection lifecycle and message events. The hub
// is the only implementor.
type Handler interface {
	OnConnect(conn Connection)
	OnMessage(conn Connection, msg wire.Message)
	OnDisconnect(conn Connection)
}

// Server owns the gin engine and websocket upgrader.
type Server struct {
	engine   *gin.Engine
	upgrader websocket.Upgrader
	handler  Handler
}

// NewServer builds a gin router exposing GET /health and GET /ws,
// with CORS configured from the allowed-origins list and the
// websocket upgrader's CheckOrigin enforcing the same whitelist.
func NewServer(allowedOrigins []string, handler Handler) *Server {
	s := &Server{handler: handler}

	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return checkOrigin(r, allowedOrigins) },
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return checkOriginString(origin, allowedOrigins) },
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400 * time.Second,
	}))
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/ws", s.serveWS)
	s.engine = r
	return s
}

// Run starts the HTTP server and blocks until it exits.
func (s *Server) Run(addr string) error {
	log.Printf("[TRANSPORT] listening on %s", addr)
	return s.engine.Run(addr)
}

func checkOriginString(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}

func checkOrigin(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser clients (bots, test harnesses) don't send one
	}
	if !checkOriginString(origin, allowed) {
		log.Printf("[TRANSPORT] rejected websocket connection from unauthorized origin: %s", origin)
		return false
	}
	return true
}

func (s *Server) serveWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[TRANSPORT] websocket upgrade error: %v", err)
		return
	}

	wc := &wsConnection{
		id:      uuid.NewString(),
		conn:    conn,
		send:    make(chan wire.Message, 256),
		limiter: rate.NewLimiter(rate.Limit(messagesPerSecond), messageBurst),
	}
	s.handler.OnConnect(wc)

	go wc.writePump()
	wc.readPump(s.handler)
}

// wsConnection adapts a gorilla/websocket connection to the
// Connection interface, mirroring the teacher's Client: a buffered
// Send channel drained by a dedicated writePump goroutine, and a
// blocking readPump that feeds the handler until the socket closes.
type wsConnection struct {
	id      string
	conn    *websocket.Conn
	send    chan wire.Message
	limiter *rate.Limiter
}

func (c *wsConnection) ID() string { return c.id }

func (c *wsConnection) Send(msg wire.Message) error {
	select {
	case c.send <- msg:
		return nil
	default:
		return errSendBufferFull
	}
}

func (c *wsConnection) Close() error {
	close(c.send)
	return c.conn.Close()
}

func (c *wsConnection) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *wsConnection) readPump(handler Handler) {
	defer func() {
		handler.OnDisconnect(c)
		c.conn.Close()
	}()
	for {
		var msg wire.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}
		if !c.limiter.Allow() {
			log.Printf("[TRANSPORT] dropping %s from %s: rate limit exceeded", msg.Event, c.id)
			continue
		}
		handler.OnMessage(c, msg)
	}
}

var errSendBufferFull = &sendBufferFullError{}

type sendBufferFullError struct{}

func (*sendBufferFullError) Error() string { return "connection send buffer is full" }
