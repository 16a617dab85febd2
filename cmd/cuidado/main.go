// Command cuidado is the terminal front end of Cuidado Mais Família. Every
// command runs behind the same session store and route guard the app
// screens use.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const Version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Erro: %s\n", describe(err))
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "cuidado",
		Short: "Cuidado Mais Família no terminal",
		Long: `Cuidado Mais Família reúne profissionais de saúde, blogs e comunidades
de apoio para famílias.

Entre com "cuidado login" e navegue pelas listas com "cuidado professionals",
"cuidado blogs" e "cuidado communities".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context(), cmd.OutOrStdout(), cmd.InOrStdin())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	cmd.PersistentFlags().StringVar(&a.opts.configPath, "config", "", "config file (default <user config dir>/cuidado/config.yaml)")
	cmd.PersistentFlags().StringVar(&a.opts.baseURL, "api", "", "API base URL (overrides the config file and CUIDADO_API_URL)")
	cmd.PersistentFlags().StringVar(&a.opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		loginCmd(a),
		signupCmd(a),
		forgotPasswordCmd(a),
		resetPasswordCmd(a),
		logoutCmd(a),
		professionalsCmd(a),
		blogsCmd(a),
		communitiesCmd(a),
		profileCmd(a),
		catalogCmd(a),
		watchCmd(a),
		configCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Mostra a versão",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "cuidado %s\n", Version)
			},
		},
	)

	return cmd
}
