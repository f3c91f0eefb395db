package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hydromate/backend/internal/models"
	"github.com/hydromate/backend/internal/types"
)

var (
	// ErrProfileNotFound signals that the user has not completed profile
	// setup yet. The client routes this to the setup flow.
	ErrProfileNotFound = errors.New("profile not set up")

	// ErrInvalidProfile wraps profile validation failures.
	ErrInvalidProfile = errors.New("invalid profile")
)

var validGenders = map[string]bool{
	"male":   true,
	"female": true,
	"other":  true,
}

// ProfileService handles hydration profile operations
type ProfileService struct {
	db *gorm.DB
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile retrieves a user's hydration profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// UpsertProfile creates or fully replaces the user's profile. Validation
// failures abort before any write.
func (s *ProfileService) UpsertProfile(ctx context.Context, userID uuid.UUID, req *types.UpsertProfileRequest) (*models.UserProfile, error) {
	if err := validateProfile(req); err != nil {
		return nil, err
	}

	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	profile.UserID = userID
	profile.Age = req.Age
	profile.Weight = req.Weight
	profile.Gender = req.Gender
	profile.ActivityLevel = req.ActivityLevel
	profile.HealthConditions = req.HealthConditions

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.WithContext(ctx).Create(&profile).Error; err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		return &profile, nil
	}

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &profile, nil
}

func validateProfile(req *types.UpsertProfileRequest) error {
	if req.Age < 1 || req.Age > 120 {
		return fmt.Errorf("%w: age must be between 1 and 120", ErrInvalidProfile)
	}
	if req.Weight < 20 || req.Weight > 300 {
		return fmt.Errorf("%w: weight must be between 20 and 300 kg", ErrInvalidProfile)
	}
	if !validGenders[req.Gender] {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalidProfile, req.Gender)
	}
	if _, ok := activityMultipliers[req.ActivityLevel]; !ok {
		return fmt.Errorf("%w: unknown activity level %q", ErrInvalidProfile, req.ActivityLevel)
	}
	return nil
}
