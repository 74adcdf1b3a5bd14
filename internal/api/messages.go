package api

import (
	"errors"
	"net/http"

	"skillstreak/internal/service"
	"skillstreak/pkg/auth"
	"skillstreak/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type messageRoutes struct {
	ms service.MessageServiceI
}

func NewMessageRoutes(handler *gin.RouterGroup, ms service.MessageServiceI, a *auth.JWTAuth) {
	r := &messageRoutes{ms: ms}
	h := handler.Group("/messages")
	h.Use(a.AuthMiddleware())
	{
		h.POST("/", r.SendMessage)
		h.GET("/:user_id", r.GetConversation)
	}
}

type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	Body        string    `json:"body" binding:"required"`
}

func (r *messageRoutes) SendMessage(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	message, err := r.ms.Send(c.Request.Context(), userID, req.RecipientID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "recipient not found"})
		case errors.Is(err, service.ErrNotFriends):
			c.JSON(http.StatusForbidden, gin.H{"error": "messages can only be sent to friends"})
		default:
			log.Error("failed to send message", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send message"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":           message.ID,
		"sender_id":    message.SenderID,
		"recipient_id": message.RecipientID,
		"body":         message.Body,
		"created_at":   message.CreatedAt,
	})
}

func (r *messageRoutes) GetConversation(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	otherID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	limit, page := pagination(c)

	messages, err := r.ms.Conversation(c.Request.Context(), userID, otherID, limit, page)
	if err != nil {
		log.Error("failed to get conversation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get conversation"})
		return
	}

	out := make([]gin.H, len(messages))
	for i, m := range messages {
		out[i] = gin.H{
			"id":           m.ID,
			"sender_id":    m.SenderID,
			"recipient_id": m.RecipientID,
			"body":         m.Body,
			"created_at":   m.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}
