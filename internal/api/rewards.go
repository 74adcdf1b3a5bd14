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

type rewardRoutes struct {
	rs service.RewardServiceI
}

func NewRewardRoutes(handler *gin.RouterGroup, rs service.RewardServiceI, a *auth.JWTAuth) {
	r := &rewardRoutes{rs: rs}
	h := handler.Group("/rewards")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/", r.ListRewards)
		h.POST("/redeem", r.RedeemReward)
	}
}

func (r *rewardRoutes) ListRewards(c *gin.Context) {
	rewards := r.rs.List()

	out := make([]gin.H, len(rewards))
	for i, reward := range rewards {
		out[i] = gin.H{
			"id":          reward.ID,
			"name":        reward.Name,
			"description": reward.Description,
			"cost":        reward.Cost,
		}
	}

	c.JSON(http.StatusOK, out)
}

type RedeemRequest struct {
	RewardID   string    `json:"reward_id" binding:"required"`
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
}

func (r *rewardRoutes) RedeemReward(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reward, remaining, err := r.rs.Redeem(c.Request.Context(), userID, req.CategoryID, req.RewardID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRewardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "reward not found"})
		case errors.Is(err, service.ErrCategoryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "no progress in this category"})
		case errors.Is(err, service.ErrInsufficientTokens):
			c.JSON(http.StatusForbidden, gin.H{"error": "not enough redeem tokens"})
		default:
			log.Error("failed to redeem reward", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to redeem reward"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reward_id":        reward.ID,
		"remaining_tokens": remaining,
	})
}
