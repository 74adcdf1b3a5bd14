package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/service"
	"skillstreak/pkg/auth"
	"skillstreak/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	maxPhotoSize    = 8 << 20
)

type practiceRoutes struct {
	ps        service.PracticeServiceI
	uploadDir string
}

func NewPracticeRoutes(handler *gin.RouterGroup, ps service.PracticeServiceI, a *auth.JWTAuth, uploadDir string) {
	r := &practiceRoutes{ps: ps, uploadDir: uploadDir}
	h := handler.Group("/practices")
	h.Use(a.AuthMiddleware())
	{
		h.POST("/", r.SubmitPractice)
		h.GET("/", r.ListPractices)
		h.GET("/feed", r.GetFriendsFeed)
		h.GET("/:practice_id", r.GetPractice)
	}
}

type PracticeResponse struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	CategoryID uuid.UUID `json:"category_id"`
	Duration   int       `json:"duration"`
	Photo      string    `json:"photo,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func practiceOf(p *model.Practice) PracticeResponse {
	return PracticeResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		CategoryID: p.CategoryID,
		Duration:   p.Duration,
		Photo:      p.Photo,
		Notes:      p.Notes,
		CreatedAt:  p.CreatedAt,
	}
}

// SubmitPractice accepts a multipart form: category_id and duration are
// required, notes and a photo file are optional. The photo is stored under
// the upload dir with a generated name.
func (r *practiceRoutes) SubmitPractice(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	categoryID, err := uuid.Parse(c.PostForm("category_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
		return
	}

	duration, err := strconv.Atoi(c.PostForm("duration"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
		return
	}

	photoPath := ""
	if file, err := c.FormFile("photo"); err == nil {
		if file.Size > maxPhotoSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photo too large"})
			return
		}
		ext := filepath.Ext(file.Filename)
		photoPath = filepath.Join(r.uploadDir, uuid.New().String()+ext)
		if err := c.SaveUploadedFile(file, photoPath); err != nil {
			log.Error("failed to save uploaded photo", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save photo"})
			return
		}
	}

	practice, result, err := r.ps.Submit(c.Request.Context(), service.PracticeSubmission{
		UserID:     userID,
		CategoryID: categoryID,
		Duration:   duration,
		Photo:      photoPath,
		Notes:      c.PostForm("notes"),
		SubmitTime: time.Now().UTC(),
	})
	if err != nil {
		log.Error("failed to submit practice", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "skill category not found"})
		case errors.Is(err, service.ErrDurationTooShort):
			c.JSON(http.StatusBadRequest, gin.H{"error": "practice duration below category minimum"})
		case errors.Is(err, service.ErrSessionNotCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": "active session has not completed yet"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit practice"})
		}
		return
	}

	unlocks := make([]string, len(result.NewUnlocks))
	for i, id := range result.NewUnlocks {
		unlocks[i] = id.String()
	}

	c.JSON(http.StatusCreated, gin.H{
		"practice": practiceOf(practice),
		"progress": gin.H{
			"current_streak":      result.Record.CurrentStreak,
			"longest_streak":      result.Record.LongestStreak,
			"total_practice_time": result.Record.TotalPracticeTime,
			"level":               result.Record.Level,
			"redeem_tokens":       result.Record.RedeemTokens,
			"token_awarded":       result.TokenAwarded,
			"new_achievements":    unlocks,
		},
	})
}

func (r *practiceRoutes) GetPractice(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	practiceID, err := uuid.Parse(c.Param("practice_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid practice_id"})
		return
	}

	practice, err := r.ps.GetByID(c.Request.Context(), userID, practiceID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPracticeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "practice not found"})
		case errors.Is(err, service.ErrNotAuthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "practices are visible to the owner and friends only"})
		default:
			log.Error("failed to get practice", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get practice"})
		}
		return
	}

	c.JSON(http.StatusOK, practiceOf(practice))
}

func (r *practiceRoutes) ListPractices(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
			return
		}
		categoryID = &id
	}

	limit, page := pagination(c)

	practices, total, err := r.ps.ListOwn(c.Request.Context(), userID, categoryID, limit, page)
	if err != nil {
		log.Error("failed to list practices", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list practices"})
		return
	}

	c.JSON(http.StatusOK, practicePage(practices, total, page, limit))
}

func (r *practiceRoutes) GetFriendsFeed(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, page := pagination(c)

	practices, total, err := r.ps.FriendsFeed(c.Request.Context(), userID, limit, page)
	if err != nil {
		log.Error("failed to get friends feed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get friends feed"})
		return
	}

	c.JSON(http.StatusOK, practicePage(practices, total, page, limit))
}

func pagination(c *gin.Context) (limit, page int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	return limit, page
}

func practicePage(practices []*model.Practice, total, page, limit int) gin.H {
	out := make([]PracticeResponse, len(practices))
	for i, p := range practices {
		out[i] = practiceOf(p)
	}
	return gin.H{
		"practices": out,
		"total":     total,
		"page":      page,
		"limit":     limit,
	}
}
