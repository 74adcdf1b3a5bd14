package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTAuth_TokenRoundTrip(t *testing.T) {
	a := NewJWTAuth("test-secret", time.Hour)
	userID := uuid.New()

	token, err := a.GenerateToken(userID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	got, err := a.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTAuth_RejectsForeignAndExpiredTokens(t *testing.T) {
	a := NewJWTAuth("test-secret", time.Hour)
	other := NewJWTAuth("another-secret", time.Hour)
	expired := NewJWTAuth("test-secret", -time.Minute)

	foreign, err := other.GenerateToken(uuid.New())
	assert.NoError(t, err)
	_, err = a.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	stale, err := expired.GenerateToken(uuid.New())
	assert.NoError(t, err)
	_, err = a.ParseToken(stale)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	a := NewJWTAuth("test-secret", time.Hour)
	userID := uuid.New()
	token, err := a.GenerateToken(userID)
	assert.NoError(t, err)

	router := gin.New()
	router.GET("/me", a.AuthMiddleware(), func(c *gin.Context) {
		id, ok := UserID(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": id.String()})
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer garbage", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	assert.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, CheckPassword(hash, "hunter22"))
	assert.False(t, CheckPassword(hash, "hunter23"))
}
