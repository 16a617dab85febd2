// Package directory holds the listing form rules shared by the server and
// its clients.
package directory

import (
	"net/url"
	"sort"
	"strings"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
)

const (
	MsgNameRequired              = "Nome é obrigatório"
	MsgAddressRequired           = "Endereço é obrigatório"
	MsgSpecialtyRequired         = "Pelo menos uma especialidade é obrigatória"
	MsgWhatsAppRequired          = "WhatsApp é obrigatório"
	MsgWhatsAppInvalid           = "WhatsApp inválido"
	MsgImageRequired             = "Imagem é obrigatória"
	MsgBlogCategoryRequired      = "Selecione pelo menos uma categoria"
	MsgLinkRequired              = "Link é obrigatório"
	MsgBlogLinkInvalid           = "Link inválido. Inclua http:// ou https://"
	MsgDescriptionRequired       = "Descrição é obrigatória"
	MsgCommunityLinkInvalid      = "Link deve começar com http:// ou https://"
	MsgCommunityCategoryRequired = "Pelo menos uma categoria é obrigatória"
)

// ValidationError maps each offending field (by its JSON name) to a message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type checker struct {
	partial bool
	fields  map[string]string
}

func (c *checker) fail(field, msg string) {
	if c.fields == nil {
		c.fields = make(map[string]string)
	}
	if _, ok := c.fields[field]; !ok {
		c.fields[field] = msg
	}
}

// text checks a required text field. On a partial update an absent field is
// fine, but a present one still has to be non-blank.
func (c *checker) text(field string, v *string, msg string) (string, bool) {
	if v == nil {
		if !c.partial {
			c.fail(field, msg)
		}
		return "", false
	}
	if strings.TrimSpace(*v) == "" {
		c.fail(field, msg)
		return "", false
	}
	return *v, true
}

func (c *checker) list(field string, v *[]string, msg string) {
	if v == nil {
		if !c.partial {
			c.fail(field, msg)
		}
		return
	}
	if len(nonBlank(*v)) == 0 {
		c.fail(field, msg)
	}
}

func (c *checker) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: c.fields}
}

// ValidateProfessional checks a create (partial=false) or an update.
func ValidateProfessional(in dto.ProfessionalInput, partial bool) error {
	c := &checker{partial: partial}
	c.text("name", in.Name, MsgNameRequired)
	c.text("address", in.Address, MsgAddressRequired)
	c.list("specialties", in.Specialties, MsgSpecialtyRequired)
	if v, ok := c.text("whatsapp", in.WhatsApp, MsgWhatsAppRequired); ok && len(Digits(v)) != 11 {
		c.fail("whatsapp", MsgWhatsAppInvalid)
	}
	c.text("image_url", in.ImageURL, MsgImageRequired)
	return c.err()
}

func ValidateBlog(in dto.BlogInput, partial bool) error {
	c := &checker{partial: partial}
	c.text("name", in.Name, MsgNameRequired)
	c.text("image_url", in.ImageURL, MsgImageRequired)
	c.list("categories", in.Categories, MsgBlogCategoryRequired)
	if v, ok := c.text("link", in.Link, MsgLinkRequired); ok && !isAbsoluteURL(v) {
		c.fail("link", MsgBlogLinkInvalid)
	}
	return c.err()
}

func ValidateCommunity(in dto.CommunityInput, partial bool) error {
	c := &checker{partial: partial}
	c.text("name", in.Name, MsgNameRequired)
	c.text("description", in.Description, MsgDescriptionRequired)
	if v, ok := c.text("link", in.Link, MsgLinkRequired); ok && !strings.HasPrefix(v, "http") {
		c.fail("link", MsgCommunityLinkInvalid)
	}
	c.list("categories", in.Categories, MsgCommunityCategoryRequired)
	c.text("image_url", in.ImageURL, MsgImageRequired)
	return c.err()
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CleanList trims entries and drops blanks and duplicates, keeping order.
func CleanList(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range nonBlank(values) {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
