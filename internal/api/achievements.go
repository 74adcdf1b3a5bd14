package api

import (
	"net/http"
	"time"

	"skillstreak/internal/middleware"
	"skillstreak/internal/model"
	"skillstreak/internal/progression"
	"skillstreak/internal/service"
	"skillstreak/pkg/auth"
	"skillstreak/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type achievementRoutes struct {
	as service.AchievementServiceI
}

func NewAchievementRoutes(handler *gin.RouterGroup, as service.AchievementServiceI, a *auth.JWTAuth, admin *middleware.Authorization) {
	r := &achievementRoutes{as: as}
	h := handler.Group("/achievements")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/", r.ListAchievements)
		h.GET("/me", r.GetUserAchievements)

		h.POST("/", admin.AdminOnly(), r.CreateAchievement)
	}
}

type CreateAchievementRequest struct {
	Name          string     `json:"name" binding:"required"`
	Description   string     `json:"description"`
	Icon          string     `json:"icon"`
	Type          string     `json:"type" binding:"required"`
	Threshold     int        `json:"threshold" binding:"required"`
	SkillSpecific bool       `json:"skill_specific"`
	SkillCategory *uuid.UUID `json:"skill_category"`
}

type AchievementResponse struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Icon          string     `json:"icon"`
	Type          string     `json:"type"`
	Threshold     int        `json:"threshold"`
	SkillSpecific bool       `json:"skill_specific"`
	SkillCategory *uuid.UUID `json:"skill_category,omitempty"`
	UnlockedAt    *time.Time `json:"unlocked_at,omitempty"`
}

func achievementOf(a *model.Achievement) AchievementResponse {
	return AchievementResponse{
		ID:            a.ID,
		Name:          a.Name,
		Description:   a.Description,
		Icon:          a.Icon,
		Type:          string(a.Type),
		Threshold:     a.Threshold,
		SkillSpecific: a.SkillSpecific,
		SkillCategory: a.SkillCategory,
	}
}

func (r *achievementRoutes) CreateAchievement(c *gin.Context) {
	log := logger.Logger()

	var req CreateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	achievement := &model.Achievement{
		Name:          req.Name,
		Description:   req.Description,
		Icon:          req.Icon,
		Type:          progression.AchievementType(req.Type),
		Threshold:     req.Threshold,
		SkillSpecific: req.SkillSpecific,
		SkillCategory: req.SkillCategory,
	}

	err := r.as.Create(c.Request.Context(), achievement)
	if err != nil {
		log.Error("failed to create achievement", zap.Error(err))
		switch err {
		case service.ErrNameTaken:
			c.JSON(http.StatusConflict, gin.H{"error": "achievement name already taken"})
		case service.ErrCategoryNotFound:
			c.JSON(http.StatusNotFound, gin.H{"error": "skill category not found"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, achievementOf(achievement))
}

func (r *achievementRoutes) ListAchievements(c *gin.Context) {
	log := logger.Logger()

	achievements, err := r.as.List(c.Request.Context())
	if err != nil {
		log.Error("failed to list achievements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list achievements"})
		return
	}

	out := make([]AchievementResponse, len(achievements))
	for i, a := range achievements {
		out[i] = achievementOf(a)
	}

	c.JSON(http.StatusOK, out)
}

func (r *achievementRoutes) GetUserAchievements(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	achievements, err := r.as.UserAchievements(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get user achievements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user achievements"})
		return
	}

	out := make([]AchievementResponse, len(achievements))
	for i, ua := range achievements {
		resp := achievementOf(&ua.Achievement)
		unlockedAt := ua.UnlockedAt
		resp.UnlockedAt = &unlockedAt
		out[i] = resp
	}

	c.JSON(http.StatusOK, out)
}
