package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/directory"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type crudService[M, I any] interface {
	List(ctx context.Context) ([]M, error)
	GetByID(ctx context.Context, id uuid.UUID) (*M, error)
	Create(ctx context.Context, in I) (*M, error)
	Update(ctx context.Context, id uuid.UUID, in I) (*M, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// resource serves one directory collection. M is the stored model, I the
// create/update input and R the response body.
type resource[M, I, R any] struct {
	service     crudService[M, I]
	validate    func(in I, partial bool) error
	respond     func(M) R
	search      func(ctx context.Context, term string) ([]M, error)
	searchParam string
	notFound    error
	notFoundMsg string
}

func (r *resource[M, I, R]) id(c *drift.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (r *resource[M, I, R]) list(c *drift.Context) {
	items, err := r.service.List(c.Request.Context())
	if err != nil {
		writeInternal(c, err, "failed to list")
		return
	}
	_ = c.JSON(http.StatusOK, mapSlice(items, r.respond))
}

func (r *resource[M, I, R]) get(c *drift.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}

	item, err := r.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeDirectoryError(c, err, r.notFound, r.notFoundMsg)
		return
	}
	_ = c.JSON(http.StatusOK, r.respond(*item))
}

func (r *resource[M, I, R]) create(c *drift.Context) {
	var in I
	if err := c.BindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}
	if err := r.validate(in, false); err != nil {
		writeDirectoryError(c, err, r.notFound, r.notFoundMsg)
		return
	}

	item, err := r.service.Create(c.Request.Context(), in)
	if err != nil {
		writeDirectoryError(c, err, r.notFound, r.notFoundMsg)
		return
	}
	_ = c.JSON(http.StatusCreated, r.respond(*item))
}

func (r *resource[M, I, R]) update(c *drift.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}

	var in I
	if err := c.BindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}
	if err := r.validate(in, true); err != nil {
		writeDirectoryError(c, err, r.notFound, r.notFoundMsg)
		return
	}

	item, err := r.service.Update(c.Request.Context(), id, in)
	if err != nil {
		writeDirectoryError(c, err, r.notFound, r.notFoundMsg)
		return
	}
	_ = c.JSON(http.StatusOK, r.respond(*item))
}

func (r *resource[M, I, R]) remove(c *drift.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}

	if err := r.service.Delete(c.Request.Context(), id); err != nil {
		writeDirectoryError(c, err, r.notFound, r.notFoundMsg)
		return
	}
	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "deleted"})
}

func (r *resource[M, I, R]) find(c *drift.Context) {
	term := strings.TrimSpace(c.QueryParam(r.searchParam))
	if term == "" {
		writeError(c, http.StatusBadRequest, CodeBadRequest, r.searchParam+" is required")
		return
	}

	items, err := r.search(c.Request.Context(), term)
	if err != nil {
		writeInternal(c, err, "search failed")
		return
	}
	_ = c.JSON(http.StatusOK, mapSlice(items, r.respond))
}

type ProfessionalHandler struct {
	res *resource[models.Professional, dto.ProfessionalInput, dto.ProfessionalResponse]
}

func NewProfessionalHandler(svc ProfessionalServiceInterface) *ProfessionalHandler {
	return &ProfessionalHandler{res: &resource[models.Professional, dto.ProfessionalInput, dto.ProfessionalResponse]{
		service:     svc,
		validate:    directory.ValidateProfessional,
		respond:     professionalResponse,
		search:      svc.SearchBySpecialty,
		searchParam: "specialty",
		notFound:    services.ErrProfessionalNotFound,
		notFoundMsg: "Profissional não encontrado.",
	}}
}

func (h *ProfessionalHandler) List(c *drift.Context)   { h.res.list(c) }
func (h *ProfessionalHandler) Get(c *drift.Context)    { h.res.get(c) }
func (h *ProfessionalHandler) Create(c *drift.Context) { h.res.create(c) }
func (h *ProfessionalHandler) Update(c *drift.Context) { h.res.update(c) }
func (h *ProfessionalHandler) Delete(c *drift.Context) { h.res.remove(c) }
func (h *ProfessionalHandler) Search(c *drift.Context) { h.res.find(c) }

type BlogHandler struct {
	res *resource[models.Blog, dto.BlogInput, dto.BlogResponse]
}

func NewBlogHandler(svc BlogServiceInterface) *BlogHandler {
	return &BlogHandler{res: &resource[models.Blog, dto.BlogInput, dto.BlogResponse]{
		service:     svc,
		validate:    directory.ValidateBlog,
		respond:     blogResponse,
		search:      svc.SearchByCategory,
		searchParam: "category",
		notFound:    services.ErrBlogNotFound,
		notFoundMsg: "Blog não encontrado.",
	}}
}

func (h *BlogHandler) List(c *drift.Context)   { h.res.list(c) }
func (h *BlogHandler) Get(c *drift.Context)    { h.res.get(c) }
func (h *BlogHandler) Create(c *drift.Context) { h.res.create(c) }
func (h *BlogHandler) Update(c *drift.Context) { h.res.update(c) }
func (h *BlogHandler) Delete(c *drift.Context) { h.res.remove(c) }
func (h *BlogHandler) Search(c *drift.Context) { h.res.find(c) }

type CommunityHandler struct {
	res *resource[models.Community, dto.CommunityInput, dto.CommunityResponse]
}

func NewCommunityHandler(svc CommunityServiceInterface) *CommunityHandler {
	return &CommunityHandler{res: &resource[models.Community, dto.CommunityInput, dto.CommunityResponse]{
		service:     svc,
		validate:    directory.ValidateCommunity,
		respond:     communityResponse,
		search:      svc.SearchByCategory,
		searchParam: "category",
		notFound:    services.ErrCommunityNotFound,
		notFoundMsg: "Comunidade não encontrada.",
	}}
}

func (h *CommunityHandler) List(c *drift.Context)   { h.res.list(c) }
func (h *CommunityHandler) Get(c *drift.Context)    { h.res.get(c) }
func (h *CommunityHandler) Create(c *drift.Context) { h.res.create(c) }
func (h *CommunityHandler) Update(c *drift.Context) { h.res.update(c) }
func (h *CommunityHandler) Delete(c *drift.Context) { h.res.remove(c) }
func (h *CommunityHandler) Search(c *drift.Context) { h.res.find(c) }
