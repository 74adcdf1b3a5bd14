package api

import (
	"errors"
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

type categoryRoutes struct {
	cs service.CategoryServiceI
}

func NewCategoryRoutes(handler *gin.RouterGroup, cs service.CategoryServiceI, a *auth.JWTAuth, admin *middleware.Authorization) {
	r := &categoryRoutes{cs: cs}
	h := handler.Group("/categories")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/", r.ListCategories)
		h.GET("/skills", r.GetUserSkills)

		h.POST("/", admin.AdminOnly(), r.CreateCategory)
	}
}

type CreateCategoryRequest struct {
	Name                 string `json:"name" binding:"required"`
	Description          string `json:"description"`
	Icon                 string `json:"icon"`
	MinimumDuration      int    `json:"minimum_duration"`
	RookieThreshold      int    `json:"rookie_threshold"`
	ApprenticeThreshold  int    `json:"apprentice_threshold"`
	MasterThreshold      int    `json:"master_threshold"`
	GrandMasterThreshold int    `json:"grand_master_threshold"`
}

type CategoryResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Icon            string    `json:"icon"`
	MinimumDuration int       `json:"minimum_duration"`
	Thresholds      gin.H     `json:"thresholds"`
	CreatedAt       time.Time `json:"created_at"`
}

func categoryOf(c *model.SkillCategory) CategoryResponse {
	return CategoryResponse{
		ID:              c.ID,
		Name:            c.Name,
		Description:     c.Description,
		Icon:            c.Icon,
		MinimumDuration: c.MinimumDuration,
		Thresholds: gin.H{
			"rookie":       c.Thresholds.Rookie,
			"apprentice":   c.Thresholds.Apprentice,
			"master":       c.Thresholds.Master,
			"grand_master": c.Thresholds.GrandMaster,
		},
		CreatedAt: c.CreatedAt,
	}
}

func (r *categoryRoutes) CreateCategory(c *gin.Context) {
	log := logger.Logger()

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	thresholds := progression.DefaultThresholds()
	if req.RookieThreshold != 0 || req.ApprenticeThreshold != 0 ||
		req.MasterThreshold != 0 || req.GrandMasterThreshold != 0 {
		thresholds = progression.Thresholds{
			Rookie:      req.RookieThreshold,
			Apprentice:  req.ApprenticeThreshold,
			Master:      req.MasterThreshold,
			GrandMaster: req.GrandMasterThreshold,
		}
	}

	category := &model.SkillCategory{
		Name:            req.Name,
		Description:     req.Description,
		Icon:            req.Icon,
		MinimumDuration: req.MinimumDuration,
		Thresholds:      thresholds,
	}

	err := r.cs.Create(c.Request.Context(), category)
	if err != nil {
		log.Error("failed to create category", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrInvalidThresholds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "thresholds must be strictly increasing"})
		case errors.Is(err, service.ErrNameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "category name already taken"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		}
		return
	}

	c.JSON(http.StatusCreated, categoryOf(category))
}

func (r *categoryRoutes) ListCategories(c *gin.Context) {
	log := logger.Logger()

	categories, err := r.cs.List(c.Request.Context())
	if err != nil {
		log.Error("failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list categories"})
		return
	}

	out := make([]CategoryResponse, len(categories))
	for i, category := range categories {
		out[i] = categoryOf(category)
	}

	c.JSON(http.StatusOK, out)
}

func (r *categoryRoutes) GetUserSkills(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	skills, err := r.cs.UserSkills(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get user skills", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get user skills"})
		return
	}

	out := make([]gin.H, len(skills))
	for i, skill := range skills {
		out[i] = gin.H{
			"category_id":         skill.CategoryID,
			"current_streak":      skill.Record.CurrentStreak,
			"longest_streak":      skill.Record.LongestStreak,
			"total_practice_time": skill.Record.TotalPracticeTime,
			"last_practice_date":  skill.Record.LastPracticeDate,
			"level":               skill.Record.Level,
			"redeem_tokens":       skill.Record.RedeemTokens,
		}
	}

	c.JSON(http.StatusOK, out)
}
