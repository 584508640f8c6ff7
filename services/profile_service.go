package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/anjiri1684/tutor_market/models"
	"github.com/anjiri1684/tutor_market/repository"
	"github.com/google/uuid"
)

type ProfileUpdate struct {
	FullName *string
	Bio      *string
}

type ProfileService struct {
	store repository.Store
}

func NewProfileService(store repository.Store) *ProfileService {
	return &ProfileService{store: store}
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	return s.store.GetProfile(ctx, id)
}

// Update changes only the fields that are set. An empty bio clears it.
func (s *ProfileService) Update(ctx context.Context, id uuid.UUID, in ProfileUpdate) (*models.Profile, error) {
	profile, err := s.store.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, fmt.Errorf("%w: full name cannot be empty", ErrInvalidInput)
		}
		profile.FullName = name
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if bio == "" {
			profile.Bio = nil
		} else {
			profile.Bio = &bio
		}
	}

	if err := s.store.SaveProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	return profile, nil
}
