package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/models"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/services"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/directory"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func setupProfessionalTest(t *testing.T) (*testutil.MockProfessionalService, http.Handler) {
	t.Helper()
	svc := new(testutil.MockProfessionalService)
	h := NewProfessionalHandler(svc)

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Get("/professionals", h.List)
	app.Get("/professionals/search", h.Search)
	app.Get("/professionals/:id", h.Get)
	app.Post("/professionals", h.Create)
	app.Patch("/professionals/:id", h.Update)
	app.Delete("/professionals/:id", h.Delete)
	return svc, app
}

func sampleProfessional() models.Professional {
	now := time.Now()
	return models.Professional{
		ID:          uuid.New(),
		Name:        "Dra. Carla",
		Address:     "Rua A, 10",
		ImageURL:    "https://cdn.example.com/carla.png",
		Specialties: []string{"Pediatria"},
		WhatsApp:    "(11) 98765-4321",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func validProfessionalInput() dto.ProfessionalInput {
	return dto.ProfessionalInput{
		Name:        ptr("Dra. Carla"),
		Address:     ptr("Rua A, 10"),
		ImageURL:    ptr("https://cdn.example.com/carla.png"),
		Specialties: &[]string{"Pediatria"},
		WhatsApp:    ptr("11987654321"),
	}
}

func TestProfessionalHandler_List(t *testing.T) {
	svc, app := setupProfessionalTest(t)
	p := sampleProfessional()

	svc.On("List", mock.Anything).Return([]models.Professional{p}, nil)

	rec := testutil.DoJSON(app, http.MethodGet, "/professionals", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.ProfessionalResponse
	testutil.DecodeJSON(t, rec, &resp)
	require.Len(t, resp, 1)
	assert.Equal(t, p.ID, resp[0].ID)
	assert.Equal(t, []string{"Pediatria"}, resp[0].Specialties)
}

func TestProfessionalHandler_List_Empty(t *testing.T) {
	svc, app := setupProfessionalTest(t)

	svc.On("List", mock.Anything).Return([]models.Professional{}, nil)

	rec := testutil.DoJSON(app, http.MethodGet, "/professionals", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestProfessionalHandler_Get(t *testing.T) {
	svc, app := setupProfessionalTest(t)
	p := sampleProfessional()
	missing := uuid.New()

	svc.On("GetByID", mock.Anything, p.ID).Return(&p, nil)
	svc.On("GetByID", mock.Anything, missing).Return(nil, services.ErrProfessionalNotFound)

	rec := testutil.DoJSON(app, http.MethodGet, "/professionals/"+p.ID.String(), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.DoJSON(app, http.MethodGet, "/professionals/"+missing.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Profissional não encontrado.", testutil.DecodeError(t, rec).Message)

	rec = testutil.DoJSON(app, http.MethodGet, "/professionals/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProfessionalHandler_Create(t *testing.T) {
	svc, app := setupProfessionalTest(t)
	p := sampleProfessional()
	in := validProfessionalInput()

	svc.On("Create", mock.Anything, in).Return(&p, nil)

	rec := testutil.DoJSON(app, http.MethodPost, "/professionals", in, "")

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp dto.ProfessionalResponse
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, p.WhatsApp, resp.WhatsApp)
	svc.AssertExpectations(t)
}

func TestProfessionalHandler_Create_ValidationFailed(t *testing.T) {
	svc, app := setupProfessionalTest(t)
	in := validProfessionalInput()
	in.WhatsApp = ptr("1234")
	in.Address = nil
	in.Specialties = &[]string{"  "}

	rec := testutil.DoJSON(app, http.MethodPost, "/professionals", in, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := testutil.DecodeError(t, rec)
	assert.Equal(t, CodeValidation, resp.Code)
	assert.Equal(t, map[string]string{
		"address":     directory.MsgAddressRequired,
		"specialties": directory.MsgSpecialtyRequired,
		"whatsapp":    directory.MsgWhatsAppInvalid,
	}, resp.Fields)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProfessionalHandler_Update(t *testing.T) {
	svc, app := setupProfessionalTest(t)
	p := sampleProfessional()
	p.Name = "Dra. Carla Souza"
	in := dto.ProfessionalInput{Name: ptr("Dra. Carla Souza")}

	svc.On("Update", mock.Anything, p.ID, in).Return(&p, nil)

	rec := testutil.DoJSON(app, http.MethodPatch, "/professionals/"+p.ID.String(), in, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Dra. Carla Souza")
}

func TestProfessionalHandler_Update_Errors(t *testing.T) {
	svc, app := setupProfessionalTest(t)
	empty, missing := uuid.New(), uuid.New()

	svc.On("Update", mock.Anything, empty, dto.ProfessionalInput{}).Return(nil, services.ErrNoFieldsToUpdate)
	svc.On("Update", mock.Anything, missing, mock.Anything).Return(nil, services.ErrProfessionalNotFound)

	rec := testutil.DoJSON(app, http.MethodPatch, "/professionals/"+empty.String(), dto.ProfessionalInput{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, CodeNoFields, testutil.DecodeError(t, rec).Code)

	rec = testutil.DoJSON(app, http.MethodPatch, "/professionals/"+missing.String(), dto.ProfessionalInput{Name: ptr("X")}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutil.DoJSON(app, http.MethodPatch, "/professionals/"+missing.String(), dto.ProfessionalInput{Name: ptr("  ")}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, directory.MsgNameRequired, testutil.DecodeError(t, rec).Fields["name"])
}

func TestProfessionalHandler_Delete(t *testing.T) {
	svc, app := setupProfessionalTest(t)
	id, missing, broken := uuid.New(), uuid.New(), uuid.New()

	svc.On("Delete", mock.Anything, id).Return(nil)
	svc.On("Delete", mock.Anything, missing).Return(services.ErrProfessionalNotFound)
	svc.On("Delete", mock.Anything, broken).Return(errors.New("db down"))

	rec := testutil.DoJSON(app, http.MethodDelete, "/professionals/"+id.String(), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = testutil.DoJSON(app, http.MethodDelete, "/professionals/"+missing.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = testutil.DoJSON(app, http.MethodDelete, "/professionals/"+broken.String(), nil, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProfessionalHandler_Search(t *testing.T) {
	svc, app := setupProfessionalTest(t)
	p := sampleProfessional()

	svc.On("SearchBySpecialty", mock.Anything, "Pediatria").Return([]models.Professional{p}, nil)

	rec := testutil.DoJSON(app, http.MethodGet, "/professionals/search?specialty=Pediatria", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), p.ID.String())

	rec = testutil.DoJSON(app, http.MethodGet, "/professionals/search", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBlogHandler_CreateAndSearch(t *testing.T) {
	svc := new(testutil.MockBlogService)
	h := NewBlogHandler(svc)
	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Post("/blogs", h.Create)
	app.Get("/blogs/search", h.Search)

	blog := models.Blog{ID: uuid.New(), Name: "Mães em Rede", Categories: []string{"Maternidade"}, Link: "https://maes.example.com"}
	svc.On("SearchByCategory", mock.Anything, "Maternidade").Return([]models.Blog{blog}, nil)

	rec := testutil.DoJSON(app, http.MethodPost, "/blogs", dto.BlogInput{
		Name:       ptr("Mães em Rede"),
		ImageURL:   ptr("https://cdn.example.com/maes.png"),
		Categories: &[]string{"Maternidade"},
		Link:       ptr("maes.example.com"),
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, directory.MsgBlogLinkInvalid, testutil.DecodeError(t, rec).Fields["link"])

	rec = testutil.DoJSON(app, http.MethodGet, "/blogs/search?category=Maternidade", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.BlogResponse
	testutil.DecodeJSON(t, rec, &resp)
	assert.Equal(t, blog.Link, resp[0].Link)
}

func TestCommunityHandler_GetAndDelete(t *testing.T) {
	svc := new(testutil.MockCommunityService)
	h := NewCommunityHandler(svc)
	app := drift.New()
	app.Get("/communities/:id", h.Get)
	app.Delete("/communities/:id", h.Delete)

	id := uuid.New()
	svc.On("GetByID", mock.Anything, id).Return(nil, services.ErrCommunityNotFound)
	svc.On("Delete", mock.Anything, id).Return(services.ErrCommunityNotFound)

	rec := testutil.DoJSON(app, http.MethodGet, "/communities/"+id.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Comunidade não encontrada.", testutil.DecodeError(t, rec).Message)

	rec = testutil.DoJSON(app, http.MethodDelete, "/communities/"+id.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogHandler(t *testing.T) {
	h := NewCatalogHandler()
	app := drift.New()
	app.Get("/catalog/specialties", h.Specialties)
	app.Get("/catalog/categories", h.Categories)

	for _, path := range []string{"/catalog/specialties", "/catalog/categories"} {
		rec := testutil.DoJSON(app, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp dto.CatalogResponse
		testutil.DecodeJSON(t, rec, &resp)
		assert.NotEmpty(t, resp.Items)
	}
}
