package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"github.com/quickloot/backend/internal/config"
	"github.com/quickloot/backend/internal/wallet"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// Register creates a user account and an empty wallet
func Register(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email       string `json:"email" binding:"required"`
			Password    string `json:"password" binding:"required"`
			DisplayName string `json:"display_name"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || !strings.Contains(email, "@") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "valid email required"})
			return
		}
		if len(req.Password) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least 8 characters"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("Register bcrypt error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		uid := generateUID()
		var userID int
		err = db.QueryRowx(`INSERT INTO users (uid, email, password_hash, display_name, is_active, created_at)
			VALUES ($1, $2, $3, $4, true, NOW()) RETURNING id`,
			uid, email, string(hash), strings.TrimSpace(req.DisplayName)).Scan(&userID)
		if err != nil {
			// Unique email constraint is the expected failure here
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}

		if _, err := wallet.GetOrCreateWallet(db, userID); err != nil {
			log.Printf("Failed to create wallet for user %d: %v", userID, err)
		}

		token, err := issueToken(cfg, userID, uid, email)
		if err != nil {
			log.Printf("Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": gin.H{"id": userID, "uid": uid, "email": email}})
	}
}

// Login validates email+password and issues a JWT
func Login(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		var user struct {
			ID           int    `db:"id"`
			UID          string `db:"uid"`
			PasswordHash string `db:"password_hash"`
			IsActive     bool   `db:"is_active"`
		}
		err := db.Get(&user, `SELECT id, uid, password_hash, is_active FROM users WHERE email=$1`, email)
		if err != nil || !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		db.Exec(`UPDATE users SET last_login=NOW() WHERE id=$1`, user.ID)

		token, err := issueToken(cfg, user.ID, user.UID, email)
		if err != nil {
			log.Printf("Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "user": gin.H{"id": user.ID, "uid": user.UID, "email": email}})
	}
}

func issueToken(cfg *config.Config, userID int, uid, email string) (string, error) {
	exp := time.Now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"user_id": userID,
		"uid":     uid,
		"email":   email,
		"exp":     exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// AuthMiddleware validates bearer JWT and sets user identity in context
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")

		parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		userIDf, ok := claims["user_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		uid, _ := claims["uid"].(string)
		email, _ := claims["email"].(string)

		c.Set("user_id", int(userIDf))
		c.Set("uid", uid)
		c.Set("email", email)
		c.Next()
	}
}

// GetMe returns the authenticated user's profile and balance
func GetMe(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var user struct {
			ID          int            `db:"id"`
			UID         string         `db:"uid"`
			Email       string         `db:"email"`
			DisplayName sql.NullString `db:"display_name"`
			CreatedAt   time.Time      `db:"created_at"`
		}
		if err := db.Get(&user, `SELECT id, uid, email, display_name, created_at FROM users WHERE id=$1`, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user not found"})
			return
		}

		balance, err := wallet.Balance(db, userID)
		if err != nil {
			log.Printf("Failed to read balance for user %d: %v", userID, err)
		}

		var ticketCount int
		db.Get(&ticketCount, `SELECT COUNT(*) FROM purchases WHERE buyer_uid=$1`, user.UID)

		c.JSON(http.StatusOK, gin.H{
			"uid":           user.UID,
			"email":         user.Email,
			"display_name":  user.DisplayName.String,
			"balance":       balance,
			"tickets_owned": ticketCount,
			"member_since":  user.CreatedAt,
		})
	}
}
