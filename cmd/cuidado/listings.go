package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/client"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/directory"
	"github.com/cuidadomaisfamilia/cuidado-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// form collects the fields of a listing from flags. Only flags that were
// set end up in the input, so the same form serves create and edit.
type form[I any] interface {
	bind(cmd *cobra.Command)
	imageFile() string
	input(cmd *cobra.Command, imageURL *string) I
}

// listing describes one of the three directory tabs.
type listing[R, I any] struct {
	use, short string
	route      string
	folder     string
	noun       string
	filterFlag string
	filterHelp string

	list   func(*client.Client, context.Context) ([]R, error)
	search func(*client.Client, context.Context, string) ([]R, error)
	get    func(*client.Client, context.Context, uuid.UUID) (*R, error)
	create func(*client.Client, context.Context, I) (*R, error)
	update func(*client.Client, context.Context, uuid.UUID, I) (*R, error)
	remove func(*client.Client, context.Context, uuid.UUID) error

	id    func(R) uuid.UUID
	name  func(R) string
	print func(io.Writer, R)
	// link is where a tap takes a regular user. When details is set the
	// user sees it first, with the link at the end.
	link    func(R) string
	details func(io.Writer, R)
	newForm func() form[I]
}

func professionalsCmd(a *app) *cobra.Command {
	return listingCmd(a, listing[dto.ProfessionalResponse, dto.ProfessionalInput]{
		use:        "professionals",
		short:      "Profissionais de saúde",
		route:      routeProfessionals,
		folder:     "professionals",
		noun:       "profissional",
		filterFlag: "specialty",
		filterHelp: "filtra por especialidade",
		list:       (*client.Client).ListProfessionals,
		search:     (*client.Client).SearchProfessionals,
		get:        (*client.Client).GetProfessional,
		create:     (*client.Client).CreateProfessional,
		update:     (*client.Client).UpdateProfessional,
		remove:     (*client.Client).DeleteProfessional,
		id:         func(p dto.ProfessionalResponse) uuid.UUID { return p.ID },
		name:       func(p dto.ProfessionalResponse) string { return p.Name },
		print:      printProfessional,
		link:       func(p dto.ProfessionalResponse) string { return directory.WhatsAppLink(p.WhatsApp) },
		newForm:    func() form[dto.ProfessionalInput] { return &professionalForm{} },
	})
}

func blogsCmd(a *app) *cobra.Command {
	return listingCmd(a, listing[dto.BlogResponse, dto.BlogInput]{
		use:        "blogs",
		short:      "Blogs sobre cuidado e saúde",
		route:      routeBlogs,
		folder:     "blogs",
		noun:       "blog",
		filterFlag: "category",
		filterHelp: "filtra por categoria",
		list:       (*client.Client).ListBlogs,
		search:     (*client.Client).SearchBlogs,
		get:        (*client.Client).GetBlog,
		create:     (*client.Client).CreateBlog,
		update:     (*client.Client).UpdateBlog,
		remove:     (*client.Client).DeleteBlog,
		id:         func(b dto.BlogResponse) uuid.UUID { return b.ID },
		name:       func(b dto.BlogResponse) string { return b.Name },
		print:      printBlog,
		link:       func(b dto.BlogResponse) string { return b.Link },
		details:    printBlogDetails,
		newForm:    func() form[dto.BlogInput] { return &blogForm{} },
	})
}

func communitiesCmd(a *app) *cobra.Command {
	return listingCmd(a, listing[dto.CommunityResponse, dto.CommunityInput]{
		use:        "communities",
		short:      "Comunidades de apoio",
		route:      routeCommunities,
		folder:     "communities",
		noun:       "comunidade",
		filterFlag: "category",
		filterHelp: "filtra por categoria",
		list:       (*client.Client).ListCommunities,
		search:     (*client.Client).SearchCommunities,
		get:        (*client.Client).GetCommunity,
		create:     (*client.Client).CreateCommunity,
		update:     (*client.Client).UpdateCommunity,
		remove:     (*client.Client).DeleteCommunity,
		id:         func(c dto.CommunityResponse) uuid.UUID { return c.ID },
		name:       func(c dto.CommunityResponse) string { return c.Name },
		print:      printCommunity,
		link:       func(c dto.CommunityResponse) string { return c.Link },
		newForm:    func() form[dto.CommunityInput] { return &communityForm{} },
	})
}

func listingCmd[R, I any](a *app, l listing[R, I]) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   l.use,
		Short: l.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(l.route); err != nil {
				return err
			}

			var items []R
			var err error
			if filter != "" {
				items, err = l.search(a.client, cmd.Context(), filter)
			} else {
				items, err = l.list(a.client, cmd.Context())
			}
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Fprintln(a.out, "Nenhum item encontrado.")
				return nil
			}
			for i, item := range items {
				if i > 0 {
					fmt.Fprintln(a.out)
				}
				l.print(a.out, item)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, l.filterFlag, "", l.filterHelp)

	cmd.AddCommand(
		openCmd(a, l),
		createCmd(a, l),
		editCmd(a, l),
		deleteCmd(a, l),
	)
	return cmd
}

// openCmd is a tap on a card: admins get the edit form, everyone else the
// details screen or the external link.
func openCmd[R, I any](a *app, l listing[R, I]) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Abre um item da lista",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(l.route); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			item, err := l.get(a.client, cmd.Context(), id)
			if err != nil {
				return err
			}

			if a.isAdmin(cmd.Context()) {
				l.print(a.out, *item)
				fmt.Fprintf(a.out, "\nPara editar: cuidado %s edit %s [--campo valor ...]\n", l.use, id)
				return nil
			}

			link := l.link(*item)
			if link == "" {
				return errors.New("este item não tem link")
			}
			if l.details != nil {
				l.details(a.out, *item)
				return nil
			}
			fmt.Fprintln(a.out, link)
			return nil
		},
	}
}

func createCmd[R, I any](a *app, l listing[R, I]) *cobra.Command {
	f := l.newForm()
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Adiciona um item (administradores)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(l.route); err != nil {
				return err
			}
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			imageURL, err := a.uploadImage(cmd.Context(), l.folder, f.imageFile())
			if err != nil {
				return err
			}

			item, err := l.create(a.client, cmd.Context(), f.input(cmd, imageURL))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s adicionado(a): %s\n", capitalize(l.noun), l.id(*item))
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func editCmd[R, I any](a *app, l listing[R, I]) *cobra.Command {
	f := l.newForm()
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Altera um item (administradores)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(l.route); err != nil {
				return err
			}
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			imageURL, err := a.uploadImage(cmd.Context(), l.folder, f.imageFile())
			if err != nil {
				return err
			}

			item, err := l.update(a.client, cmd.Context(), id, f.input(cmd, imageURL))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s atualizado(a).\n\n", capitalize(l.noun))
			l.print(a.out, *item)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func deleteCmd[R, I any](a *app, l listing[R, I]) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Exclui um item (administradores)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(l.route); err != nil {
				return err
			}
			if err := a.requireAdmin(cmd.Context()); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if !yes {
				item, err := l.get(a.client, cmd.Context(), id)
				if err != nil {
					return err
				}
				answer, err := a.prompt(fmt.Sprintf("Excluir %q? (s/N)", l.name(*item)), "")
				if err != nil {
					return err
				}
				if !strings.EqualFold(answer, "s") && !strings.EqualFold(answer, "sim") {
					fmt.Fprintln(a.out, "Cancelado.")
					return nil
				}
			}

			if err := l.remove(a.client, cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s excluído(a).\n", capitalize(l.noun))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "não pede confirmação")
	return cmd
}

// uploadImage sends the file at path to folder and returns its URL. An empty
// path uploads nothing.
func (a *app) uploadImage(ctx context.Context, folder, path string) (*string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	uploaded, err := a.client.Upload(ctx, folder, http.DetectContentType(data), data)
	if err != nil {
		return nil, err
	}
	return &uploaded.URL, nil
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("id inválido: %s", s)
	}
	return id, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

type professionalForm struct {
	name, address, image, file, whatsapp string
	specialties                          []string
}

func (f *professionalForm) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "nome")
	cmd.Flags().StringVar(&f.address, "address", "", "endereço")
	cmd.Flags().StringVar(&f.image, "image-url", "", "URL da imagem")
	cmd.Flags().StringVar(&f.file, "image", "", "arquivo de imagem a enviar")
	cmd.Flags().StringSliceVar(&f.specialties, "specialty", nil, "especialidade (repetível)")
	cmd.Flags().StringVar(&f.whatsapp, "whatsapp", "", "WhatsApp com DDD")
}

func (f *professionalForm) imageFile() string { return f.file }

func (f *professionalForm) input(cmd *cobra.Command, imageURL *string) dto.ProfessionalInput {
	in := dto.ProfessionalInput{
		Name:     changed(cmd, "name", f.name),
		Address:  changed(cmd, "address", f.address),
		ImageURL: changed(cmd, "image-url", f.image),
		WhatsApp: changed(cmd, "whatsapp", f.whatsapp),
	}
	if imageURL != nil {
		in.ImageURL = imageURL
	}
	if cmd.Flags().Changed("specialty") {
		in.Specialties = &f.specialties
	}
	return in
}

type blogForm struct {
	name, image, file, link string
	categories              []string
}

func (f *blogForm) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "nome")
	cmd.Flags().StringVar(&f.image, "image-url", "", "URL da imagem")
	cmd.Flags().StringVar(&f.file, "image", "", "arquivo de imagem a enviar")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "categoria (repetível)")
	cmd.Flags().StringVar(&f.link, "link", "", "endereço do blog")
}

func (f *blogForm) imageFile() string { return f.file }

func (f *blogForm) input(cmd *cobra.Command, imageURL *string) dto.BlogInput {
	in := dto.BlogInput{
		Name:     changed(cmd, "name", f.name),
		ImageURL: changed(cmd, "image-url", f.image),
		Link:     changed(cmd, "link", f.link),
	}
	if imageURL != nil {
		in.ImageURL = imageURL
	}
	if cmd.Flags().Changed("category") {
		in.Categories = &f.categories
	}
	return in
}

type communityForm struct {
	name, description, image, file, link string
	categories                           []string
}

func (f *communityForm) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "nome")
	cmd.Flags().StringVar(&f.description, "description", "", "descrição")
	cmd.Flags().StringVar(&f.image, "image-url", "", "URL da imagem")
	cmd.Flags().StringVar(&f.file, "image", "", "arquivo de imagem a enviar")
	cmd.Flags().StringSliceVar(&f.categories, "category", nil, "categoria (repetível)")
	cmd.Flags().StringVar(&f.link, "link", "", "link de acesso à comunidade")
}

func (f *communityForm) imageFile() string { return f.file }

func (f *communityForm) input(cmd *cobra.Command, imageURL *string) dto.CommunityInput {
	in := dto.CommunityInput{
		Name:        changed(cmd, "name", f.name),
		Description: changed(cmd, "description", f.description),
		ImageURL:    changed(cmd, "image-url", f.image),
		Link:        changed(cmd, "link", f.link),
	}
	if imageURL != nil {
		in.ImageURL = imageURL
	}
	if cmd.Flags().Changed("category") {
		in.Categories = &f.categories
	}
	return in
}

func changed(cmd *cobra.Command, flag, value string) *string {
	if !cmd.Flags().Changed(flag) {
		return nil
	}
	return &value
}
