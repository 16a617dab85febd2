package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/autherr"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/client"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/directory"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/identity"
)

func printProfessional(w io.Writer, p dto.ProfessionalResponse) {
	fmt.Fprintf(w, "%s  [%s]\n", p.Name, p.ID)
	fmt.Fprintf(w, "  Endereço: %s\n", p.Address)
	fmt.Fprintf(w, "  Especialidades: %s\n", strings.Join(p.Specialties, ", "))
	fmt.Fprintf(w, "  WhatsApp: %s\n", directory.FormatPhone(p.WhatsApp))
}

func printBlog(w io.Writer, b dto.BlogResponse) {
	fmt.Fprintf(w, "%s  [%s]\n", b.Name, b.ID)
	fmt.Fprintf(w, "  Categorias: %s\n", strings.Join(b.Categories, ", "))
	fmt.Fprintf(w, "  Link: %s\n", b.Link)
}

func printBlogDetails(w io.Writer, b dto.BlogResponse) {
	fmt.Fprintln(w, b.Name)
	if b.ImageURL != "" {
		fmt.Fprintf(w, "Imagem: %s\n", b.ImageURL)
	}
	fmt.Fprintf(w, "Categorias: %s\n", strings.Join(b.Categories, ", "))
	fmt.Fprintf(w, "\nAcessar blog: %s\n", b.Link)
}

func printCommunity(w io.Writer, c dto.CommunityResponse) {
	fmt.Fprintf(w, "%s  [%s]\n", c.Name, c.ID)
	if c.Description != "" {
		fmt.Fprintf(w, "  %s\n", c.Description)
	}
	fmt.Fprintf(w, "  Categorias: %s\n", strings.Join(c.Categories, ", "))
	fmt.Fprintf(w, "  Link: %s\n", c.Link)
}

func printUser(w io.Writer, u *dto.UserResponse) {
	fmt.Fprintf(w, "Nome: %s\n", deref(u.DisplayName, "-"))
	fmt.Fprintf(w, "Email: %s\n", u.Email)
	if u.AvatarURL != nil {
		fmt.Fprintf(w, "Foto: %s\n", *u.AvatarURL)
	}
	role := "-"
	if u.Role != identity.RoleUnknown {
		role = u.Role.Label()
	}
	fmt.Fprintf(w, "Perfil: %s\n", role)
}

func displayName(id *identity.Identity) string {
	if id.DisplayName != nil && *id.DisplayName != "" {
		return *id.DisplayName
	}
	return deref(id.Email, id.ID)
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

// describe turns an error into the message shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrNotSignedIn), errors.Is(err, client.ErrSessionExpired):
		return "sua sessão expirou, entre novamente com \"cuidado login\""
	case autherr.KindOf(err) != "":
		return autherr.MessageFor(err)
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if len(apiErr.Fields) == 0 {
		return apiErr.Message
	}

	fields := make([]string, 0, len(apiErr.Fields))
	for field := range apiErr.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString(apiErr.Message)
	for _, field := range fields {
		fmt.Fprintf(&b, "\n  %s: %s", field, apiErr.Fields[field])
	}
	return b.String()
}
