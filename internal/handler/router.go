package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/daptic/internal/handler/chat"
	"github.com/zhouzirui/daptic/internal/handler/persona"
	"github.com/zhouzirui/daptic/internal/handler/widget"
	middlewarePkg "github.com/zhouzirui/daptic/internal/middleware"
	personaModel "github.com/zhouzirui/daptic/internal/model/persona"
	chatService "github.com/zhouzirui/daptic/internal/service/chat"
	"github.com/zhouzirui/daptic/internal/service/conversation"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(personas personaModel.Store, chatSvc *chatService.Service, sources widget.Sources, sessionOpts conversation.Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	personaHandler := persona.New(personas)
	chatHandler := chat.New(chatSvc)
	widgetHandler := widget.New(personas, sources, sessionOpts)

	r.Route("/api", func(api chi.Router) {
		personaHandler.RegisterRoutes(api)
		chatHandler.RegisterRoutes(api)
	})

	widgetHandler.RegisterRoutes(r)

	return r
}
