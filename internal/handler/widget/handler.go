// Package widget serves the chat widget page and the websocket that drives it.
package widget

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	chatHandler "github.com/zhouzirui/daptic/internal/handler/chat"
	"github.com/zhouzirui/daptic/internal/model/chat"
	"github.com/zhouzirui/daptic/internal/model/persona"
	"github.com/zhouzirui/daptic/internal/service/conversation"
	"github.com/zhouzirui/daptic/internal/service/history"
	"github.com/zhouzirui/daptic/internal/widget"
)

// ConfirmClearText is asked before the visible conversation is wiped.
const ConfirmClearText = "Start a fresh conversation?"

const (
	socketPath   = "/ws"
	readDeadline = 60 * time.Second
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

//go:embed templates/page.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/page.html"))

// Handler 聊天窗口页面与WebSocket处理器
type Handler struct {
	personas persona.Store
	sources  Sources
	opts     conversation.Options
	upgrader websocket.Upgrader
}

// New 创建聊天窗口处理器。opts 作为每个连接的会话配置模板。
func New(personas persona.Store, sources Sources, opts conversation.Options) *Handler {
	return &Handler{
		personas: personas,
		sources:  sources,
		opts:     opts,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册页面和WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handlePage)
	r.Get(socketPath, h.handleWebSocket)
}

type pageData struct {
	persona.Persona
	ConfirmClear string
	SocketPath   string
}

func (h *Handler) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Persona:      h.personas.Default(),
		ConfirmClear: ConfirmClearText,
		SocketPath:   socketPath,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Printf("[widget] render page failed: %v", err)
	}
}

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type noticeMessage struct {
	Op      string `json:"op"`
	Message string `json:"message"`
}

// handleWebSocket 为一个页面维护聊天记录和会话，直到连接关闭
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	username := chatHandler.ResolveUsername(r, r.URL.Query().Get("username"))
	replies, past, err := h.sources(username)
	if err != nil {
		log.Printf("[widget] build sources for user=%s failed: %v", username, err)
		http.Error(w, "chat backend unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[widget] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := chat.Session{ID: uuid.NewString(), Username: username, CreatedAt: time.Now()}
	log.Printf("[widget] new connection session=%s user=%s", session.ID, session.Username)

	ctx, cancel := context.WithCancel(r.Context())
	// Shutdown does not reach hijacked connections; closing the socket ends the read loop.
	context.AfterFunc(ctx, func() { conn.Close() })
	sink := &connSink{conn: conn}
	chatLog := widget.NewLog(sink)
	turn := conversation.NewSession(chatLog, replies, h.opts)

	var turns sync.WaitGroup
	defer func() {
		chatLog.Detach()
		cancel()
		turns.Wait()
		log.Printf("[widget] connection closed session=%s after %s", session.ID, time.Since(session.CreatedAt).Round(time.Second))
	}()

	conn.SetReadDeadline(time.Now().Add(readDeadline))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	go sink.pingLoop(ctx)

	// Failures are logged by the loader and leave the log empty.
	_ = history.NewLoader(past, chatLog).Load(ctx)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[widget] read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readDeadline))

		switch msg.Type {
		case "send":
			turns.Add(1)
			go func(text string) {
				defer turns.Done()
				err := turn.Submit(ctx, text)
				switch {
				case errors.Is(err, conversation.ErrBusy):
					sink.notice(err.Error())
				case err != nil && ctx.Err() == nil:
					log.Printf("[widget] turn failed session=%s: %v", session.ID, err)
				}
			}(msg.Text)
		case "clear":
			chatLog.Clear()
		default:
			sink.notice("unsupported message type: " + msg.Type)
		}
	}
}

// connSink writes widget events to a websocket. gorilla connections allow a
// single concurrent writer, so every write holds mu.
type connSink struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *connSink) Emit(e widget.Event) error {
	return s.writeJSON(e)
}

func (s *connSink) notice(message string) {
	if err := s.writeJSON(noticeMessage{Op: "error", Message: message}); err != nil {
		log.Printf("[widget] write notice failed: %v", err)
	}
}

func (s *connSink) writeJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(v)
}

// pingLoop 定期发送ping消息
func (s *connSink) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			s.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
