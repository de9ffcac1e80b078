// internal/domain/user/service.go
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bakery-backend/internal/config"
	"github.com/your-org/bakery-backend/internal/pkg/apperror"
	"github.com/your-org/bakery-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Service handles user account business logic
type Service struct {
	db        *gorm.DB
	config    *config.Config
	passwords *auth.PasswordManager
	tokens    *auth.JWTManager
	log       *logrus.Logger
}

// NewService creates a new user service
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:        db,
		config:    cfg,
		passwords: auth.NewPasswordManager(cfg),
		tokens:    auth.NewJWTManager(cfg),
		log:       log,
	}
}

// RegisterRequest represents registration data. IsAdmin is accepted in the
// payload only so privilege-escalation attempts can be detected and logged;
// it is never honored.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
	IsAdmin     *bool  `json:"is_admin"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest represents profile update data
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"date_of_birth"`
}

// TokenPair carries the issued access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents a successful register/login result
type AuthResponse struct {
	User   *User     `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

// Register creates a new user account. Any client-supplied is_admin flag is
// stripped and the attempt logged.
func (s *Service) Register(req *RegisterRequest) (*AuthResponse, error) {
	if req.IsAdmin != nil {
		s.log.WithFields(logrus.Fields{
			"username": req.Username,
			"email":    req.Email,
		}).Warn("registration payload included is_admin; field stripped")
	}

	hashed, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Validation(err.Error(), map[string]string{"password": err.Error()})
	}

	account := User{
		Username:  strings.TrimSpace(req.Username),
		Email:     strings.TrimSpace(req.Email),
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Address:   req.Address,
		IsAdmin:   false,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return nil, apperror.Validation("invalid date of birth", map[string]string{
				"date_of_birth": "expected YYYY-MM-DD",
			})
		}
		account.DateOfBirth = &dob
	}

	if err := s.db.Create(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("username or email is already registered")
		}
		return nil, apperror.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	tokens, err := s.issueTokens(&account)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &AuthResponse{User: &account, Tokens: *tokens}, nil
}

// Login authenticates a user by username (or email) and password
func (s *Service) Login(req *LoginRequest) (*AuthResponse, error) {
	var account User
	err := s.db.
		Where("username = ? OR email = ?", req.Username, strings.ToLower(req.Username)).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Authentication("invalid credentials")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.passwords.VerifyPassword(req.Password, account.Password); err != nil {
		return nil, apperror.Authentication("invalid credentials")
	}

	tokens, err := s.issueTokens(&account)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &AuthResponse{User: &account, Tokens: *tokens}, nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair
func (s *Service) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.Authentication("invalid or expired refresh token")
	}

	account, err := s.GetUser(claims.UserID)
	if err != nil {
		return nil, apperror.Authentication("invalid or expired refresh token")
	}

	tokens, err := s.issueTokens(account)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &AuthResponse{User: account, Tokens: *tokens}, nil
}

// GetUser retrieves a user by id
func (s *Service) GetUser(id string) (*User, error) {
	var account User
	if err := s.db.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user")
		}
		return nil, apperror.Internal(err)
	}
	return &account, nil
}

// UpdateProfile updates the caller's own profile fields
func (s *Service) UpdateProfile(userID string, req *UpdateProfileRequest) (*User, error) {
	account, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return nil, apperror.Validation("invalid date of birth", map[string]string{
				"date_of_birth": "expected YYYY-MM-DD",
			})
		}
		updates["date_of_birth"] = dob
	}

	if err := s.db.Model(account).Updates(updates).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update profile: %w", err))
	}
	return account, nil
}

// ListUsers retrieves all users for the admin back-office
func (s *Service) ListUsers() ([]User, error) {
	var users []User
	if err := s.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to retrieve users: %w", err))
	}
	return users, nil
}

func (s *Service) issueTokens(account *User) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
