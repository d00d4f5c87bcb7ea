package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Masaicker/GamePact/internal/models"
)

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: []byte(jwtSecret)}
}

type AuthClaims struct {
	UserID   uint
	Username string
	IsAdmin  bool
}

// ValidatePassword enforces the shared password policy: at least 8 characters,
// at least one letter and one digit, printable ASCII, no whitespace.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == ' ', r == '\t':
			return errors.New("password must not contain whitespace")
		case r > 126 || r < 33:
			return errors.New("password must contain only printable ASCII characters")
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must contain both letters and digits")
	}
	return nil
}

// Register creates a user from a pending invitation code and grants the
// initial RP balance.
func (s *AuthService) Register(username, displayName, password, inviteCode string) (*models.User, string, error) {
	if username == "" || displayName == "" {
		return nil, "", errors.New("username and display name are required")
	}
	if err := ValidatePassword(password); err != nil {
		return nil, "", err
	}

	var invitation models.Invitation
	if err := s.db.Where("code = ?", inviteCode).First(&invitation).Error; err != nil {
		return nil, "", errors.New("invalid invitation code")
	}
	if invitation.Status != models.InvitationStatusPending {
		return nil, "", errors.New("invitation code already used or expired")
	}
	if invitation.ExpiresAt != nil && invitation.ExpiresAt.Before(time.Now()) {
		s.db.Model(&invitation).Update("status", models.InvitationStatusExpired)
		return nil, "", errors.New("invitation code expired")
	}

	var existing models.User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, "", errors.New("username already taken")
	}
	if err := s.db.Where("display_name = ? AND deleted_at IS NULL", displayName).First(&existing).Error; err == nil {
		return nil, "", errors.New("display name already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		RP:           models.InitialRP,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&models.Invitation{}).Where("id = ?", invitation.ID).Updates(map[string]interface{}{
			"status":     models.InvitationStatusUsed,
			"used_by_id": user.ID,
			"used_at":    now,
		}).Error
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) Login(username, password string) (*models.User, string, error) {
	var user models.User
	if err := s.db.Where("username = ? AND deleted_at IS NULL", username).First(&user).Error; err != nil {
		return nil, "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", errors.New("invalid credentials")
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if oldPassword == newPassword {
		return errors.New("new password must differ from the old password")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return errors.New("user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.New("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.db.Model(&user).Update("password_hash", string(hash)).Error
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(30 * 24 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid user_id in token")
	}
	username, _ := claims["username"].(string)
	isAdmin, _ := claims["is_admin"].(bool)

	return &AuthClaims{UserID: uint(userID), Username: username, IsAdmin: isAdmin}, nil
}

// LookupUser re-checks the token's subject against the database so deleted
// users lose access immediately.
func (s *AuthService) LookupUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ? AND deleted_at IS NULL", userID).First(&user).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}
