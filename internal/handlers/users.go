package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"clinic-management-server/internal/models"
	"clinic-management-server/internal/utils"
)

// UserHandler handles staff account management requests.
type UserHandler struct {
	DB *mongo.Database
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(db *mongo.Database) *UserHandler {
	return &UserHandler{DB: db}
}

// CreateUserRequest represents the request body for creating a staff account.
type CreateUserRequest struct {
	UserName string `json:"userName" binding:"required,max=60"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=reception doctor owner"`
}

// CreateUser creates a staff credential record. Owner-only.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	creds := h.DB.Collection(models.UserCollection)

	var existing models.User
	err := creds.FindOne(ctx, bson.M{"userName": req.UserName}).Decode(&existing)
	if err == nil {
		utils.BadRequest(c, "User with this username already exists")
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		log.Error().Err(err).Msg("failed to check for existing user")
		utils.InternalServerError(c, "Database error")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		UserName:  req.UserName,
		Role:      models.Role(req.Role),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.SetPassword(req.Password); err != nil {
		log.Error().Err(err).Msg("failed to hash password")
		utils.InternalServerError(c, "Failed to hash password")
		return
	}

	result, err := creds.InsertOne(ctx, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to create user")
		utils.InternalServerError(c, "Failed to create user")
		return
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}

	utils.Created(c, user.Sanitize())
}

// GetUsers lists all staff accounts without password hashes. Owner-only.
func (h *UserHandler) GetUsers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cursor, err := h.DB.Collection(models.UserCollection).Find(ctx, bson.M{})
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch users")
		utils.InternalServerError(c, "Failed to fetch users")
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		log.Error().Err(err).Msg("failed to decode users")
		utils.InternalServerError(c, "Failed to decode users")
		return
	}

	sanitized := make([]models.UserSanitized, 0, len(users))
	for i := range users {
		sanitized = append(sanitized, users[i].Sanitize())
	}

	utils.Success(c, sanitized)
}
