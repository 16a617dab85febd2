package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func catalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Listas de referência usadas nos filtros e formulários",
	}

	lists := []struct {
		use, short string
		fetch      func(context.Context) ([]string, error)
	}{
		{"specialties", "Especialidades médicas", func(ctx context.Context) ([]string, error) { return a.client.Specialties(ctx) }},
		{"categories", "Categorias de blogs e comunidades", func(ctx context.Context) ([]string, error) { return a.client.Categories(ctx) }},
	}
	for _, l := range lists {
		cmd.AddCommand(&cobra.Command{
			Use:   l.use,
			Short: l.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.enter(routeProfessionals); err != nil {
					return err
				}
				items, err := l.fetch(cmd.Context())
				if err != nil {
					return err
				}
				for _, item := range items {
					fmt.Fprintln(a.out, item)
				}
				return nil
			},
		})
	}
	return cmd
}
