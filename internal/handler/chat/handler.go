package chat

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zhouzirui/daptic/internal/model/chat"
	chatService "github.com/zhouzirui/daptic/internal/service/chat"
	"github.com/zhouzirui/daptic/pkg/utils"
)

var tracer = otel.Tracer("github.com/zhouzirui/daptic/internal/handler/chat")

// Handler 聊天接口的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/generate", h.handleGenerate)
	r.Get("/history", h.handleHistory)
	r.Get("/current_user", h.handleCurrentUser)
}

type historyEntry struct {
	Role      chat.Role `json:"role"`
	Message   string    `json:"message"`
	CreatedAt string    `json:"created_at,omitempty"`
}

// handleGenerate 生成一条回复
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prompt   string `json:"prompt"`
		Username string `json:"username"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	username := ResolveUsername(r, payload.Username)
	ctx, span := tracer.Start(r.Context(), "api.generate")
	defer span.End()
	span.SetAttributes(attribute.String("user", username))

	text, err := h.chatSvc.Generate(ctx, username, payload.Prompt)
	if err != nil {
		status, message := chatService.StatusOf(err)
		span.RecordError(err)
		log.Printf("[chat] generate failed for user=%s: %v", username, err)
		utils.RespondError(w, status, message)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{"reply": text})
}

// handleHistory 返回当前用户的历史消息，存储失败时返回空列表
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	username := ResolveUsername(r, r.URL.Query().Get("username"))

	messages, err := h.chatSvc.History(r.Context(), username)
	if err != nil {
		log.Printf("[chat] failed to load history for user=%s: %v", username, err)
		messages = nil
	}

	entries := make([]historyEntry, 0, len(messages))
	for _, msg := range messages {
		entry := historyEntry{Role: msg.Role, Message: msg.Text}
		if !msg.CreatedAt.IsZero() {
			entry.CreatedAt = msg.CreatedAt.UTC().Format("2006-01-02 15:04:05")
		}
		entries = append(entries, entry)
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"history": entries})
}

// handleCurrentUser 返回 cookie 中的用户名，未登录时为空字符串
func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"username": CookieUsername(r)})
}

// CookieUsername returns the username carried by the user cookie, or "".
func CookieUsername(r *http.Request) string {
	cookie, err := r.Cookie(chat.UserCookie)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

// ResolveUsername picks the cookie user, then fallback, then the anonymous user.
func ResolveUsername(r *http.Request, fallback string) string {
	if name := CookieUsername(r); name != "" {
		return name
	}
	if name := strings.TrimSpace(fallback); name != "" {
		return name
	}
	return chat.AnonymousUser
}
