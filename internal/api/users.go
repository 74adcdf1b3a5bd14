package api

import (
	"errors"
	"net/http"
	"time"

	"skillstreak/internal/model"
	"skillstreak/internal/service"
	"skillstreak/pkg/auth"
	"skillstreak/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type userRoutes struct {
	us service.UserServiceI
	a  *auth.JWTAuth
}

func NewUserRoutes(handler *gin.RouterGroup, us service.UserServiceI, a *auth.JWTAuth) {
	r := &userRoutes{us: us, a: a}

	public := handler.Group("/auth")
	{
		public.POST("/register", r.Register)
		public.POST("/login", r.Login)
	}

	h := handler.Group("/users")
	h.Use(a.AuthMiddleware())
	{
		h.GET("/me", r.GetProfile)
		h.PATCH("/me", r.UpdateProfile)
		h.GET("/leaderboard", r.GetLeaderboard)
		h.GET("/friends", r.GetFriends)
		h.POST("/friends/:user_id", r.SendFriendRequest)
		h.GET("/friends/requests", r.GetFriendRequests)
		h.POST("/friends/requests/:user_id/accept", r.AcceptFriendRequest)
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

func profileOf(u *model.User) UserProfile {
	return UserProfile{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}

func (r *userRoutes) Register(c *gin.Context) {
	log := logger.Logger()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, token, err := r.us.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		log.Error("failed to register user", zap.Error(err))
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: profileOf(user)})
}

func (r *userRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, token, err := r.us.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		log.Error("failed to log in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log in"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: profileOf(user)})
}

func (r *userRoutes) GetProfile(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := r.us.GetProfile(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get profile", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get profile"})
		return
	}

	c.JSON(http.StatusOK, profileOf(user))
}

type UpdateProfileRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	ProfileImage string `json:"profile_image"`
}

func (r *userRoutes) UpdateProfile(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := r.us.UpdateProfile(c.Request.Context(), userID, req.Name, req.Email, req.Password, req.ProfileImage)
	if err != nil {
		log.Error("failed to update profile", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		}
		return
	}

	c.JSON(http.StatusOK, profileOf(user))
}

func (r *userRoutes) GetLeaderboard(c *gin.Context) {
	log := logger.Logger()

	entries, err := r.us.GetLeaderboard(c.Request.Context())
	if err != nil {
		log.Error("failed to get leaderboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get leaderboard"})
		return
	}

	out := make([]gin.H, len(entries))
	for i, e := range entries {
		out[i] = gin.H{
			"user_id":             e.UserID,
			"name":                e.Name,
			"profile_image":       e.ProfileImage,
			"total_practice_time": e.TotalPracticeTime,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *userRoutes) SendFriendRequest(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	targetID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	err = r.us.SendFriendRequest(c.Request.Context(), targetID, userID)
	if err != nil {
		log.Error("failed to send friend request", zap.Error(err))
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{})
}

func (r *userRoutes) AcceptFriendRequest(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requesterID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}

	err = r.us.AcceptFriendRequest(c.Request.Context(), userID, requesterID)
	if err != nil {
		log.Error("failed to accept friend request", zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending request from this user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (r *userRoutes) GetFriends(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	friends, err := r.us.GetFriends(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get friends", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get friends"})
		return
	}

	out := make([]gin.H, len(friends))
	for i, f := range friends {
		out[i] = gin.H{
			"id":            f.ID,
			"name":          f.Name,
			"profile_image": f.ProfileImage,
		}
	}

	c.JSON(http.StatusOK, out)
}

func (r *userRoutes) GetFriendRequests(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	requests, err := r.us.GetFriendRequests(c.Request.Context(), userID)
	if err != nil {
		log.Error("failed to get friend requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get friend requests"})
		return
	}

	out := make([]gin.H, len(requests))
	for i, req := range requests {
		out[i] = gin.H{
			"requester_id":   req.RequesterID,
			"requester_name": req.RequesterName,
			"created_at":     req.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, out)
}
