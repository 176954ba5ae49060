package user

import (
	"github.com/besicmining/marketplace-api/pkg/apperr"
	"github.com/besicmining/marketplace-api/pkg/middleware"
	"github.com/besicmining/marketplace-api/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Service handles user profile operations and acts as the identity
// directory for the other services.
type Service struct {
	db *Database
}

func NewService(gormDB *gorm.DB) *Service {
	return &Service{db: NewDatabase(gormDB)}
}

// Store exposes the underlying user storage for the auth service.
func (s *Service) Store() *Database {
	return s.db
}

// UserExists reports whether a live user record exists for the id.
func (s *Service) UserExists(id uint) (bool, error) {
	u, err := s.db.GetUser(id)
	if err != nil {
		return false, err
	}
	return u != nil && u.IsActive, nil
}

func (s *Service) GetProfile(id uint) (*User, error) {
	u, err := s.db.GetUser(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "User not found",
			map[string]any{"userId": id})
	}
	return u, nil
}

func (s *Service) UpdateProfile(id uint, req UpdateProfileRequest) (*User, error) {
	u, err := s.GetProfile(id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	u.ProfileCompletion = profileCompletion(u)

	if err := s.db.UpdateUser(u); err != nil {
		return nil, err
	}
	return u, nil
}

// profileCompletion scores the profile by filled optional fields.
func profileCompletion(u *User) int {
	fields := []string{u.Username, u.Name, u.Phone}
	filled := 1 // email is always present
	for _, f := range fields {
		if f != "" {
			filled++
		}
	}
	return filled * 100 / (len(fields) + 1)
}

// GinHandlers contains HTTP handlers for user profile endpoints
type GinHandlers struct {
	service *Service
}

func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{service: service}
}

// GetMeHandler handles GET requests for the caller's own profile
func (h *GinHandlers) GetMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		u, err := h.service.GetProfile(id)
		response.Handle(c, u, err)
	}
}

// UpdateMeHandler handles PATCH requests updating the caller's profile
func (h *GinHandlers) UpdateMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.UserID(c)
		if !ok {
			response.Unauthorized(c, "Missing authentication")
			return
		}

		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}

		u, err := h.service.UpdateProfile(id, req)
		response.Handle(c, u, err)
	}
}
