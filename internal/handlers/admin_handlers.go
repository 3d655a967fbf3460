package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/comfortdesignszw-mny/ecommerce-web/internal/auth"
	"github.com/comfortdesignszw-mny/ecommerce-web/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Admin Account Handlers ---
//

// RegisterAdminInput defines the JSON for POST /auth/admin/register.
// This is separate from models.AdminUser because we never accept an id, role
// or status from the caller.
type RegisterAdminInput struct {
	Name      string `json:"name" binding:"required,min=2"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	StoreName string `json:"store_name" binding:"required,min=2"`
	Bio       string `json:"bio" binding:"required,min=10"`
}

// passwordMeetsPolicy checks for at least one lowercase letter, one uppercase
// letter, one digit and one special character.
func passwordMeetsPolicy(password string) bool {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
			special = true
		}
	}
	return lower && upper && digit && special
}

// RegisterAdmin is the handler for POST /auth/admin/register.
// New accounts are stored pending; approval happens out of band and only
// approved accounts can sign in.
func (h *Handlers) RegisterAdmin(c *gin.Context) {
	var input RegisterAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !passwordMeetsPolicy(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Password must contain uppercase, lowercase, number, and special character",
		})
		return
	}

	var existingID int64
	err := h.DB.QueryRow("SELECT id FROM admin_users WHERE email = ?", input.Email).Scan(&existingID)
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An admin with this email already exists"})
		return
	}
	if !errors.Is(err, sql.ErrNoRows) {
		slog.Error("failed to check existing admin", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	var password models.Password
	if err := password.Set(input.Password); err != nil {
		slog.Error("failed to hash password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	result, err := h.DB.Exec(`
		INSERT INTO admin_users (name, email, password_hash, store_name, bio, role, status)
		VALUES (?, ?, ?, ?, ?, 'regular', 'pending')`,
		input.Name, input.Email, password.Hash, input.StoreName, input.Bio)
	if err != nil {
		// The unique index backstops the existence check above against a
		// concurrent registration with the same email.
		if isDuplicateKeyErr(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "An admin with this email already exists"})
			return
		}
		slog.Error("failed to insert admin user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	id, err := result.LastInsertId()
	if err != nil {
		slog.Error("failed to get new admin id", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	slog.Info("admin registration submitted", "admin_id", id, "email", input.Email)

	c.JSON(http.StatusOK, gin.H{
		"message": "Registration submitted successfully. Your account is pending approval.",
		"admin": gin.H{
			"id":         id,
			"name":       input.Name,
			"email":      input.Email,
			"store_name": input.StoreName,
			"status":     models.AdminStatusPending,
		},
	})
}

// LoginInput defines the JSON for POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is the handler for POST /auth/login.
// The failure message is uniform so callers cannot probe which emails exist
// or which accounts are still pending.
func (h *Handlers) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var admin models.AdminUser
	err := h.DB.QueryRow(`
		SELECT id, name, email, password_hash, role, status
		FROM admin_users
		WHERE email = ?`, input.Email).Scan(
		&admin.ID, &admin.Name, &admin.Email, &admin.PasswordHash, &admin.Role, &admin.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		slog.Error("failed to look up admin user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	password := models.Password{Hash: admin.PasswordHash}
	matches, err := password.Matches(input.Password)
	if err != nil {
		slog.Error("failed to compare password", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}
	if !matches || admin.Status != models.AdminStatusApproved {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(admin.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
			"role":  admin.Role,
		},
	})
}
