package api

import (
	"errors"
	"net/http"

	"skillstreak/internal/service"
	"skillstreak/internal/timer"
	"skillstreak/pkg/auth"
	"skillstreak/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type sessionRoutes struct {
	ss service.SessionServiceI
}

func NewSessionRoutes(handler *gin.RouterGroup, ss service.SessionServiceI, a *auth.JWTAuth) {
	r := &sessionRoutes{ss: ss}
	h := handler.Group("/sessions")
	h.Use(a.AuthMiddleware())
	{
		h.POST("/", r.StartSession)
		h.GET("/", r.GetSessionStatus)
		h.POST("/pause", r.PauseSession)
		h.POST("/resume", r.ResumeSession)
		h.POST("/reset", r.ResetSession)
	}
}

type StartSessionRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
	Duration   int       `json:"duration" binding:"required"`
}

func (r *sessionRoutes) StartSession(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := r.ss.Start(c.Request.Context(), userID, req.CategoryID, req.Duration)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "skill category not found"})
			return
		}
		log.Error("failed to start session", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to start session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{})
}

func (r *sessionRoutes) GetSessionStatus(c *gin.Context) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	session, err := r.ss.Status(userID)
	if err != nil {
		if errors.Is(err, timer.ErrNoActiveSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get session status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category_id": session.CategoryID,
		"state":       session.Timer.State.String(),
		"duration":    session.Timer.Duration,
		"remaining":   session.Timer.Remaining,
	})
}

func (r *sessionRoutes) PauseSession(c *gin.Context) {
	r.sessionAction(c, r.ss.Pause)
}

func (r *sessionRoutes) ResumeSession(c *gin.Context) {
	r.sessionAction(c, r.ss.Resume)
}

func (r *sessionRoutes) ResetSession(c *gin.Context) {
	r.sessionAction(c, r.ss.Reset)
}

func (r *sessionRoutes) sessionAction(c *gin.Context, fn func(uuid.UUID) error) {
	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := fn(userID); err != nil {
		if errors.Is(err, timer.ErrNoActiveSession) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session action failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}
