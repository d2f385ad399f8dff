package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"structa-system/config"
	"structa-system/internal/database/models"
	"structa-system/internal/utils"
)

type AuthHandler struct {
	db  *gorm.DB
	cfg config.AuthConfig
}

func NewAuthHandler(db *gorm.DB, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Company  string `json:"company,omitempty"`
}

type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Where("username = ? AND is_active = ?", req.Username, true).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid credentials"))
		return
	}

	ttl := time.Duration(h.cfg.TokenTTLHours) * time.Hour
	token, exp, err := utils.GenerateToken(user.ID, user.Username, user.Role, ttl)
	if err != nil {
		abortInternal(c, "auth_handler.go", "Login", "GenerateToken", err)
		return
	}

	now := time.Now()
	user.LastLogin = &now
	h.db.Model(&user).Update("last_login", now)

	c.JSON(http.StatusOK, successResponse("Login successful", map[string]interface{}{
		"token":      token,
		"expires_at": exp,
		"user": userView{
			ID: user.ID, Username: user.Username, Email: user.Email,
			Name: user.Name, Role: user.Role,
		},
	}))
}

// Register creates a client-portal account. Back-office roles are assigned
// out of band.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		abortInternal(c, "auth_handler.go", "Register", "bcrypt", err)
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Company:  req.Company,
		Role:     models.RoleClient,
		IsActive: true,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Username or email already taken"))
		return
	}

	ttl := time.Duration(h.cfg.TokenTTLHours) * time.Hour
	token, exp, err := utils.GenerateToken(user.ID, user.Username, user.Role, ttl)
	if err != nil {
		abortInternal(c, "auth_handler.go", "Register", "GenerateToken", err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Account created", map[string]interface{}{
		"token":      token,
		"expires_at": exp,
		"user": userView{
			ID: user.ID, Username: user.Username, Email: user.Email,
			Name: user.Name, Role: user.Role,
		},
	}))
}
