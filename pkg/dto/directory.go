package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProfessionalInput is used for both create and partial update; nil fields
// are left untouched on update.
type ProfessionalInput struct {
	Name        *string   `json:"name,omitempty"`
	Address     *string   `json:"address,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Specialties *[]string `json:"specialties,omitempty"`
	WhatsApp    *string   `json:"whatsapp,omitempty"`
}

type ProfessionalResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	ImageURL    string    `json:"image_url"`
	Specialties []string  `json:"specialties"`
	WhatsApp    string    `json:"whatsapp"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BlogInput struct {
	Name       *string   `json:"name,omitempty"`
	ImageURL   *string   `json:"image_url,omitempty"`
	Categories *[]string `json:"categories,omitempty"`
	Link       *string   `json:"link,omitempty"`
}

type BlogResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"image_url"`
	Categories []string  `json:"categories"`
	Link       string    `json:"link"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CommunityInput struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Categories  *[]string `json:"categories,omitempty"`
	Link        *string   `json:"link,omitempty"`
}

type CommunityResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Categories  []string  `json:"categories"`
	Link        string    `json:"link"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CatalogResponse struct {
	Items []string `json:"items"`
}

type UploadResponse struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// UploadRequest carries one image; Data is base64 in JSON.
type UploadRequest struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}
