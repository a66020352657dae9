package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ashrayhostel/hostel-api/internal/billing"
	"github.com/ashrayhostel/hostel-api/internal/config"
	"github.com/ashrayhostel/hostel-api/internal/middleware"
	"github.com/ashrayhostel/hostel-api/internal/models"
	"github.com/ashrayhostel/hostel-api/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles authentication operations
type AuthService struct {
	hostelRepo   repository.HostelRepository
	residentRepo repository.ResidentRepository
	cfg          *config.Config
	now          func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(hostelRepo repository.HostelRepository, residentRepo repository.ResidentRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		hostelRepo:   hostelRepo,
		residentRepo: residentRepo,
		cfg:          cfg,
		now:          time.Now,
	}
}

// LoginResult represents the result of a login attempt
type LoginResult struct {
	Token      string `json:"token"`
	Role       string `json:"role"`
	HostelID   uint   `json:"hostel_id"`
	ResidentID uint   `json:"resident_id,omitempty"`
	Name       string `json:"name"`
}

// AdminLogin authenticates the hostel administrator
func (s *AuthService) AdminLogin(ctx context.Context, hostelID uint, password string) (*LoginResult, error) {
	if s.cfg.AdminPasswordHash == "" {
		return nil, fmt.Errorf("%w: admin login is not configured", ErrUnauthorized)
	}

	hostel, err := s.hostelRepo.FindByID(ctx, hostelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr("find hostel", err)
	}

	if !VerifyPassword(password, s.cfg.AdminPasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(0, hostel.ID, models.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		Token:    token,
		Role:     models.RoleAdmin,
		HostelID: hostel.ID,
		Name:     hostel.Name,
	}, nil
}

// ResidentLogin authenticates a resident by mobile number and date of birth
func (s *AuthService) ResidentLogin(ctx context.Context, mobile string, dob time.Time) (*LoginResult, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, &ValidationError{Field: "mobile_number", Reason: "is required"}
	}

	resident, err := s.residentRepo.FindByMobileAndDOB(ctx, mobile, billing.CivilDate(dob))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, storageErr("find resident", err)
	}

	token, err := s.generateJWT(resident.ID, resident.HostelID, models.RoleResident)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResult{
		Token:      token,
		Role:       models.RoleResident,
		HostelID:   resident.HostelID,
		ResidentID: resident.ID,
		Name:       resident.FullName,
	}, nil
}

// generateJWT creates a new JWT token
func (s *AuthService) generateJWT(residentID, hostelID uint, role string) (string, error) {
	now := s.now()
	claims := middleware.Claims{
		UserID:   residentID,
		HostelID: hostelID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// VerifyPassword compares a password with a hash
func VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
