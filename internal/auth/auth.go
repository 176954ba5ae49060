package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/besicmining/marketplace-api/internal/config"
	"github.com/besicmining/marketplace-api/internal/user"
	"github.com/besicmining/marketplace-api/pkg/apperr"
	"github.com/besicmining/marketplace-api/pkg/middleware"
	"github.com/besicmining/marketplace-api/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrTokenGeneration = errors.New("failed to generate token")

// Service handles signup, login and token issuance.
type Service struct {
	db    *Database
	users *user.Database
	cfg   config.AuthConfig
}

func NewService(gormDB *gorm.DB, users *user.Database, cfg config.AuthConfig) *Service {
	return &Service{
		db:    NewDatabase(gormDB),
		users: users,
		cfg:   cfg,
	}
}

// Signup registers a new user and returns a token pair.
func (s *Service) Signup(req SignupRequest) (*TokenResponse, error) {
	logger := log.With().Str("service", "auth").Str("email", req.Email).Logger()

	existing, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict(apperr.CodeDuplicateResource,
			"An account with this email already exists",
			map[string]any{"email": req.Email})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Email:       req.Email,
		Password:    string(hash),
		Role:        user.RoleUser,
		TermsAgreed: req.TermsAgreed,
		IsActive:    true,
	}
	if err := s.users.CreateUser(u); err != nil {
		logger.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	logger.Info().Uint("user_id", u.ID).Msg("user registered")
	return s.issueTokens(u)
}

// Login verifies the credentials and returns a token pair.
func (s *Service) Login(req LoginRequest) (*TokenResponse, error) {
	u, err := s.users.GetUserByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, apperr.New(apperr.CodeInvalidCredentials,
			"Invalid email or password", http.StatusUnauthorized, nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, apperr.New(apperr.CodeInvalidCredentials,
			"Invalid email or password", http.StatusUnauthorized, nil)
	}

	return s.issueTokens(u)
}

// Refresh rotates a refresh token into a new token pair.
func (s *Service) Refresh(req RefreshRequest) (*TokenResponse, error) {
	stored, err := s.db.GetRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil || time.Now().After(stored.ExpiresAt) {
		return nil, apperr.Unauthorized("Refresh token is invalid or expired")
	}

	u, err := s.users.GetUser(stored.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, apperr.Unauthorized("Refresh token is invalid or expired")
	}

	// single use: the old token is revoked on rotation
	if err := s.db.DeleteRefreshToken(req.RefreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(u)
}

// Logout revokes every refresh token the user holds. Outstanding access
// tokens stay valid until they expire.
func (s *Service) Logout(userID uint) error {
	if err := s.db.DeleteUserRefreshTokens(userID); err != nil {
		return err
	}
	log.Info().Str("service", "auth").Uint("user_id", userID).Msg("user logged out")
	return nil
}

func (s *Service) issueTokens(u *user.User) (*TokenResponse, error) {
	expiration := time.Now().Add(s.cfg.AccessTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
		UserID: u.ID,
		Role:   u.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessToken, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, ErrTokenGeneration
	}

	refresh := &RefreshToken{
		Token:     uuid.New().String(),
		UserID:    u.ID,
		ExpiresAt: time.Now().Add(s.cfg.RefreshTTL),
	}
	if err := s.db.CreateRefreshToken(refresh); err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refresh.Token,
		Expiration:   expiration,
	}, nil
}

// ValidateToken validates a JWT access token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// GinHandlers contains HTTP handlers for authentication endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// SignupHandler handles POST requests to register a new account
func (h *GinHandlers) SignupHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		tokens, err := h.service.Signup(req)
		response.Handle(c, tokens, err)
	}
}

// LoginHandler handles POST requests to exchange credentials for tokens
func (h *GinHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		tokens, err := h.service.Login(req)
		response.Handle(c, tokens, err)
	}
}

// LogoutHandler handles POST requests revoking the caller's refresh tokens
func (h *GinHandlers) LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		if err := h.service.Logout(id); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.Success(c, gin.H{"loggedOut": true})
	}
}

// RefreshHandler handles POST requests to rotate a refresh token
func (h *GinHandlers) RefreshHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		tokens, err := h.service.Refresh(req)
		response.Handle(c, tokens, err)
	}
}
