package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zhouzirui/daptic/internal/handler/widget"
	"github.com/zhouzirui/daptic/internal/model/persona"
	chatService "github.com/zhouzirui/daptic/internal/service/chat"
	"github.com/zhouzirui/daptic/internal/service/conversation"
	"github.com/zhouzirui/daptic/internal/store"
)

func newTestRouter() http.Handler {
	chatSvc := chatService.NewService(store.NewMemory(), nil, chatService.Options{})
	return NewRouter(persona.NewMemoryStore(persona.Seed()), chatSvc, widget.DirectSources(chatSvc), conversation.Options{})
}

func TestRouterServesAPIAndPage(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/", "", http.StatusOK},
		{http.MethodGet, "/api/persona", "", http.StatusOK},
		{http.MethodGet, "/api/history", "", http.StatusOK},
		{http.MethodGet, "/api/current_user", "", http.StatusOK},
		{http.MethodPost, "/api/generate", `{"prompt":"hi"}`, http.StatusServiceUnavailable},
		{http.MethodOptions, "/api/generate", "", http.StatusNoContent},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, req)

		if resp.Code != tc.status {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.status, resp.Code)
		}
	}
}
