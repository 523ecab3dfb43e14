package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"clinic-management-server/internal/config"
	"clinic-management-server/internal/models"
	"clinic-management-server/internal/utils"
)

// requestTimeout bounds every store operation issued by a handler.
const requestTimeout = 10 * time.Second

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	DB  *mongo.Database
	Cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *mongo.Database, cfg *config.Config) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg}
}

// LoginRequest represents the request body for staff login.
type LoginRequest struct {
	UserName string `json:"userName" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	Role        models.Role `json:"role"`
	AccessToken string      `json:"accessToken"`
}

// Login verifies staff credentials against the creds collection and returns
// the caller's role with an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var user models.User
	err := h.DB.Collection(models.UserCollection).FindOne(ctx, bson.M{"userName": req.UserName}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.Unauthorized(c, "Invalid username or password.")
		} else {
			log.Error().Err(err).Msg("failed to look up user for login")
			utils.InternalServerError(c, "Database error")
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid username or password.")
		return
	}

	token, err := utils.GenerateToken(&user, h.Cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate access token")
		utils.InternalServerError(c, "Failed to generate token")
		return
	}

	utils.Success(c, LoginResponse{
		Role:        user.Role,
		AccessToken: token,
	})
}
