package socket

import (
	"context"
	"sync"

	"icebreak_server/services"

	socketio "github.com/googollee/go-socket.io"
	log "github.com/sirupsen/logrus"
)

// Gateway authenticates socket connections, normalizes inbound commands into
// typed calls on the queue/session/chat services, and delivers outbound
// events. It is the only place handler errors become error events.
type Gateway struct {
	Server   *socketio.Server
	Queue    *services.QueueService
	Sessions *services.SessionService
	Chat     *services.ChatService
	Resolve  IdentityResolver

	mu    sync.RWMutex
	conns map[string]socketio.Conn
}

// Inbound command payloads. The gateway accepts both questionIndex and index
// for answers; the services only ever see one normalized command.
type queueJoinPayload struct {
	HobbyFilters []string `json:"hobbyFilters"`
}

type sessionRefPayload struct {
	SessionID string `json:"sessionId"`
}

type answerPayload struct {
	SessionID     string `json:"sessionId"`
	QuestionIndex *int   `json:"questionIndex"`
	Index         *int   `json:"index"`
	Text          string `json:"text"`
}

func (p answerPayload) questionIndex() (int, bool) {
	if p.Index != nil {
		return *p.Index, true
	}
	if p.QuestionIndex != nil {
		return *p.QuestionIndex, true
	}
	return 0, false
}

type chatJoinPayload struct {
	MatchID string `json:"matchId"`
}

type chatSendPayload struct {
	MatchID string `json:"matchId"`
	Content string `json:"content"`
}

// NewGateway wires a Socket.IO server to the matchmaking services
func NewGateway(queue *services.QueueService, sessions *services.SessionService, chat *services.ChatService, resolve IdentityResolver) *Gateway {
	g := &Gateway{
		Server:   socketio.NewServer(nil),
		Queue:    queue,
		Sessions: sessions,
		Chat:     chat,
		Resolve:  resolve,
		conns:    make(map[string]socketio.Conn),
	}

	g.Server.OnConnect("/", g.onConnect)
	g.Server.OnEvent("/", "queue:join", g.onQueueJoin)
	g.Server.OnEvent("/", "queue:leave", g.onQueueLeave)
	g.Server.OnEvent("/", "session:ready", g.onSessionReady)
	g.Server.OnEvent("/", "session:answer", g.onSessionAnswer)
	g.Server.OnEvent("/", "session:leave", g.onSessionLeave)
	g.Server.OnEvent("/", "chat:join", g.onChatJoin)
	g.Server.OnEvent("/", "chat:send", g.onChatSend)
	g.Server.OnError("/", func(c socketio.Conn, err error) {
		log.Printf("❌ Socket error: %v", err)
	})
	g.Server.OnDisconnect("/", g.onDisconnect)

	return g
}

// ToUser delivers an event to every live connection of a user via their room
func (g *Gateway) ToUser(userID, event string, payload interface{}) {
	g.Server.BroadcastToRoom("/", userID, event, payload)
}

// ToConn delivers an event to one specific connection
func (g *Gateway) ToConn(socketID, event string, payload interface{}) {
	g.mu.RLock()
	c, ok := g.conns[socketID]
	g.mu.RUnlock()
	if ok {
		c.Emit(event, payload)
	}
}

func (g *Gateway) onConnect(c socketio.Conn) error {
	u := c.URL()
	token := u.Query().Get("token")
	userID, err := g.Resolve(token)
	if err != nil {
		log.Printf("❌ Rejected socket %s: %v", c.ID(), err)
		return err
	}

	c.SetContext(userID)
	c.Join(userID) // per-user room makes every device for this user addressable

	g.mu.Lock()
	g.conns[c.ID()] = c
	g.mu.Unlock()

	log.Printf("✅ Socket connected: %s (user %s)", c.ID(), userID)
	return nil
}

func (g *Gateway) onDisconnect(c socketio.Conn, reason string) {
	g.mu.Lock()
	delete(g.conns, c.ID())
	g.mu.Unlock()

	userID := g.userOf(c)
	log.Printf("👋 Socket disconnected: %s (user %s): %s", c.ID(), userID, reason)
	if userID == "" {
		return
	}
	g.Queue.Dequeue(userID)
	g.Sessions.LeaveUser(context.Background(), userID)
}

func (g *Gateway) onQueueJoin(c socketio.Conn, payload queueJoinPayload) {
	userID := g.userOf(c)
	if userID == "" {
		return
	}

	g.Queue.Enqueue(userID, c.ID(), payload.HobbyFilters)
	log.Printf("🎯 User %s joined the queue (%d waiting)", userID, g.Queue.Size())

	a, b, found := g.Queue.TryMatch()
	if !found {
		return
	}
	if err := g.Sessions.CreatePair(context.Background(), a, b); err != nil {
		log.Printf("❌ Pairing failed: %v", err)
		c.Emit(services.EventQueueError, "Failed to join queue")
	}
}

func (g *Gateway) onQueueLeave(c socketio.Conn) {
	userID := g.userOf(c)
	if userID == "" {
		return
	}
	g.Queue.Dequeue(userID)
	g.Sessions.LeaveUser(context.Background(), userID)
}

func (g *Gateway) onSessionReady(c socketio.Conn, payload sessionRefPayload) {
	userID := g.userOf(c)
	if userID == "" || payload.SessionID == "" {
		return
	}
	if err := g.Sessions.Ready(context.Background(), payload.SessionID, userID, c.ID()); err != nil {
		log.Printf("❌ session:ready failed: %v", err)
		c.Emit(services.EventQueueError, "Failed to start session")
	}
}

func (g *Gateway) onSessionAnswer(c socketio.Conn, payload answerPayload) {
	userID := g.userOf(c)
	index, hasIndex := payload.questionIndex()
	if userID == "" || payload.SessionID == "" || !hasIndex || payload.Text == "" {
		return
	}
	if err := g.Sessions.Answer(context.Background(), payload.SessionID, userID, index, payload.Text); err != nil {
		log.Printf("❌ session:answer failed: %v", err)
		c.Emit(services.EventQueueError, "Error while processing answer")
	}
}

func (g *Gateway) onSessionLeave(c socketio.Conn, payload sessionRefPayload) {
	userID := g.userOf(c)
	if userID == "" || payload.SessionID == "" {
		return
	}
	if err := g.Sessions.LeaveSession(context.Background(), payload.SessionID, userID); err != nil {
		log.Printf("❌ session:leave failed: %v", err)
	}
}

func (g *Gateway) onChatJoin(c socketio.Conn, payload chatJoinPayload) {
	if payload.MatchID == "" {
		log.Printf("❌ Invalid matchId in chat:join request")
		return
	}
	log.Printf("👥 User %s joined match %s", g.userOf(c), payload.MatchID)
	c.Join(payload.MatchID)
}

func (g *Gateway) onChatSend(c socketio.Conn, payload chatSendPayload) {
	userID := g.userOf(c)
	if userID == "" {
		return
	}

	message, err := g.Chat.SendMessage(context.Background(), payload.MatchID, userID, payload.Content)
	if err != nil {
		log.Printf("❌ chat:send failed: %v", err)
		c.Emit(services.EventChatError, "Failed to send message")
		return
	}
	g.Server.BroadcastToRoom("/", payload.MatchID, services.EventChatNew, message)
}

func (g *Gateway) userOf(c socketio.Conn) string {
	userID, _ := c.Context().(string)
	return userID
}
