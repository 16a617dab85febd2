package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/guard"
	"github.com/cuidadomaisfamilia/cuidado-api/internal/session"
	"github.com/spf13/cobra"
)

// watchCmd keeps the process on a screen and reports every session change
// and every redirect the guard makes until interrupted or signed out.
func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Acompanha a sessão em tempo real",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(routeProfessionals); err != nil {
				return err
			}

			stopWatch := a.store.Watch(func(st session.State) {
				switch {
				case st.Loading:
				case !st.IsAuthenticated():
					fmt.Fprintln(a.out, "Sessão encerrada.")
				case st.IsAdmin():
					fmt.Fprintf(a.out, "Conectado como %s (Administrador)\n", displayName(st.Identity))
				default:
					fmt.Fprintf(a.out, "Conectado como %s\n", displayName(st.Identity))
				}
			})
			defer stopWatch()

			a.guard.OnDecision(func(d guard.Decision) {
				if d.Redirect != "" {
					fmt.Fprintf(a.out, "→ %s\n", d.Redirect)
				}
			})

			fmt.Fprintln(a.out, "Acompanhando a sessão. Ctrl+C para sair.")
			err := a.client.WatchSession(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
