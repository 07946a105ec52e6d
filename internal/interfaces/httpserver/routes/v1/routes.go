package v1

import (
	"github.com/gin-gonic/gin"

	"chat-relay/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates API route registration.
type Routes struct {
	handlers  *handlers.Provider
	uploadURL string
}

// NewRoutes builds the route registrar. uploadPrefix is the path stored files are served under.
func NewRoutes(provider *handlers.Provider, uploadPrefix string) *Routes {
	return &Routes{handlers: provider, uploadURL: uploadPrefix}
}

// Register attaches the gateway, conversation and file routes.
func (r *Routes) Register(router gin.IRouter) {
	api := router.Group("/api")

	ai := api.Group("/ai")
	ai.POST("/query", r.handlers.AI.Query)
	ai.POST("/upload", r.handlers.AI.Upload)

	conversations := api.Group("/conversations")
	conversations.POST("", r.handlers.Conversation.Create)
	conversations.GET("", r.handlers.Conversation.List)
	conversations.GET("/:id", r.handlers.Conversation.Get)
	conversations.DELETE("/:id", r.handlers.Conversation.Delete)
	conversations.POST("/:id/messages", r.handlers.Conversation.Submit)
	conversations.GET("/:id/events", r.handlers.Conversation.Events)

	router.GET(r.uploadURL+"/*name", r.handlers.AI.ServeFile)
}
