package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
)

// collection addresses one directory collection, e.g. "/professionals".
type collection[R, I any] struct {
	c           *Client
	path        string
	searchParam string
}

func (col collection[R, I]) list(ctx context.Context) ([]R, error) {
	var out []R
	if err := col.c.authed(ctx, http.MethodGet, col.path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (col collection[R, I]) get(ctx context.Context, id uuid.UUID) (*R, error) {
	var out R
	if err := col.c.authed(ctx, http.MethodGet, col.path+"/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col collection[R, I]) create(ctx context.Context, in I) (*R, error) {
	var out R
	if err := col.c.authed(ctx, http.MethodPost, col.path, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col collection[R, I]) update(ctx context.Context, id uuid.UUID, in I) (*R, error) {
	var out R
	if err := col.c.authed(ctx, http.MethodPatch, col.path+"/"+id.String(), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (col collection[R, I]) remove(ctx context.Context, id uuid.UUID) error {
	return col.c.authed(ctx, http.MethodDelete, col.path+"/"+id.String(), nil, nil)
}

func (col collection[R, I]) search(ctx context.Context, term string) ([]R, error) {
	var out []R
	q := url.Values{col.searchParam: {term}}
	if err := col.c.authed(ctx, http.MethodGet, col.path+"/search?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) professionals() collection[dto.ProfessionalResponse, dto.ProfessionalInput] {
	return collection[dto.ProfessionalResponse, dto.ProfessionalInput]{c: c, path: "/professionals", searchParam: "specialty"}
}

func (c *Client) blogs() collection[dto.BlogResponse, dto.BlogInput] {
	return collection[dto.BlogResponse, dto.BlogInput]{c: c, path: "/blogs", searchParam: "category"}
}

func (c *Client) communities() collection[dto.CommunityResponse, dto.CommunityInput] {
	return collection[dto.CommunityResponse, dto.CommunityInput]{c: c, path: "/communities", searchParam: "category"}
}

func (c *Client) ListProfessionals(ctx context.Context) ([]dto.ProfessionalResponse, error) {
	return c.professionals().list(ctx)
}

func (c *Client) GetProfessional(ctx context.Context, id uuid.UUID) (*dto.ProfessionalResponse, error) {
	return c.professionals().get(ctx, id)
}

func (c *Client) CreateProfessional(ctx context.Context, in dto.ProfessionalInput) (*dto.ProfessionalResponse, error) {
	return c.professionals().create(ctx, in)
}

func (c *Client) UpdateProfessional(ctx context.Context, id uuid.UUID, in dto.ProfessionalInput) (*dto.ProfessionalResponse, error) {
	return c.professionals().update(ctx, id, in)
}

func (c *Client) DeleteProfessional(ctx context.Context, id uuid.UUID) error {
	return c.professionals().remove(ctx, id)
}

func (c *Client) SearchProfessionals(ctx context.Context, specialty string) ([]dto.ProfessionalResponse, error) {
	return c.professionals().search(ctx, specialty)
}

func (c *Client) ListBlogs(ctx context.Context) ([]dto.BlogResponse, error) {
	return c.blogs().list(ctx)
}

func (c *Client) GetBlog(ctx context.Context, id uuid.UUID) (*dto.BlogResponse, error) {
	return c.blogs().get(ctx, id)
}

func (c *Client) CreateBlog(ctx context.Context, in dto.BlogInput) (*dto.BlogResponse, error) {
	return c.blogs().create(ctx, in)
}

func (c *Client) UpdateBlog(ctx context.Context, id uuid.UUID, in dto.BlogInput) (*dto.BlogResponse, error) {
	return c.blogs().update(ctx, id, in)
}

func (c *Client) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	return c.blogs().remove(ctx, id)
}

func (c *Client) SearchBlogs(ctx context.Context, category string) ([]dto.BlogResponse, error) {
	return c.blogs().search(ctx, category)
}

func (c *Client) ListCommunities(ctx context.Context) ([]dto.CommunityResponse, error) {
	return c.communities().list(ctx)
}

func (c *Client) GetCommunity(ctx context.Context, id uuid.UUID) (*dto.CommunityResponse, error) {
	return c.communities().get(ctx, id)
}

func (c *Client) CreateCommunity(ctx context.Context, in dto.CommunityInput) (*dto.CommunityResponse, error) {
	return c.communities().create(ctx, in)
}

func (c *Client) UpdateCommunity(ctx context.Context, id uuid.UUID, in dto.CommunityInput) (*dto.CommunityResponse, error) {
	return c.communities().update(ctx, id, in)
}

func (c *Client) DeleteCommunity(ctx context.Context, id uuid.UUID) error {
	return c.communities().remove(ctx, id)
}

func (c *Client) SearchCommunities(ctx context.Context, category string) ([]dto.CommunityResponse, error) {
	return c.communities().search(ctx, category)
}

func (c *Client) Specialties(ctx context.Context) ([]string, error) {
	var resp dto.CatalogResponse
	if err := c.authed(ctx, http.MethodGet, "/catalog/specialties", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp dto.CatalogResponse
	if err := c.authed(ctx, http.MethodGet, "/catalog/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Upload stores an image in folder ("professionals", "blogs", "communities"
// or "avatars") and returns its public URL.
func (c *Client) Upload(ctx context.Context, folder, contentType string, data []byte) (*dto.UploadResponse, error) {
	var resp dto.UploadResponse
	err := c.authed(ctx, http.MethodPost, "/media/"+url.PathEscape(folder), dto.UploadRequest{
		ContentType: contentType,
		Data:        data,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
