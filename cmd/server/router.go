package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/teamkrews/krews-chat/internal/middleware"
	"github.com/teamkrews/krews-chat/pkg/auth"
)

func APIEndpoints(r *gin.Engine, h *Handlers, jwtMgr *auth.JWTManager, rdb *redis.Client) {
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", h.Auth.Register)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.POST("/logout", h.Auth.Logout)
	}

	api := r.Group("/api/v1", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.GET("/users/me", h.User.GetMe)

		api.POST("/workspaces", h.Workspace.CreateWorkspace)

		api.POST("/chatrooms", h.ChatRoom.CreateChatRoom)
		api.GET("/chatrooms/sent", h.ChatRoom.GetChatRoomsOfSent)
		api.GET("/chatrooms/received", h.ChatRoom.GetChatRoomsOfReceived)
		api.PATCH("/chatrooms/:id/new-state", h.ChatRoom.SetNewStateForRoom)
		api.POST("/chatrooms/:id/messages", h.Message.SendMessage)
		api.GET("/chatrooms/:id/messages", h.Message.GetRoomMessages)

		api.PATCH("/chatroom-users/:id/new-state", h.ChatRoom.SetNewStateForMembership)
	}

	ai := r.Group("/openAI", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		ai.GET("/generate/teamName", h.TeamName.GenerateTeamName)
		ai.POST("/save/teamName/workspace/:workspaceId", h.TeamName.SaveTeamName)
	}

	r.GET("/ws", middleware.WSAuthMiddleware(jwtMgr, rdb), h.WebSocket.HandleWebSocket)
}
