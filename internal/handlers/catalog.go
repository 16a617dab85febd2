package handlers

import (
	"net/http"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/catalog"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

func (h *CatalogHandler) Specialties(c *drift.Context) {
	_ = c.JSON(http.StatusOK, dto.CatalogResponse{Items: catalog.Specialties()})
}

func (h *CatalogHandler) Categories(c *drift.Context) {
	_ = c.JSON(http.StatusOK, dto.CatalogResponse{Items: catalog.Categories()})
}
