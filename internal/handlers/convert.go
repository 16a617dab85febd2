package handlers

import (
	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
)

func userResponse(user *models.User, role identity.Role) dto.UserResponse {
	return dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		Role:        role,
	}
}

func professionalResponse(p models.Professional) dto.ProfessionalResponse {
	return dto.ProfessionalResponse{
		ID:          p.ID,
		Name:        p.Name,
		Address:     p.Address,
		ImageURL:    p.ImageURL,
		Specialties: p.Specialties,
		WhatsApp:    p.WhatsApp,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func blogResponse(b models.Blog) dto.BlogResponse {
	return dto.BlogResponse{
		ID:         b.ID,
		Name:       b.Name,
		ImageURL:   b.ImageURL,
		Categories: b.Categories,
		Link:       b.Link,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func communityResponse(cm models.Community) dto.CommunityResponse {
	return dto.CommunityResponse{
		ID:          cm.ID,
		Name:        cm.Name,
		Description: cm.Description,
		ImageURL:    cm.ImageURL,
		Categories:  cm.Categories,
		Link:        cm.Link,
		CreatedAt:   cm.CreatedAt,
		UpdatedAt:   cm.UpdatedAt,
	}
}

func mapSlice[M, R any](items []M, fn func(M) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
