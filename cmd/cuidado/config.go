package main

import (
	"fmt"

	"github.com/cuidadomaisfamilia/cuidado-api/pkg/client"
	"github.com/spf13/cobra"
)

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuração do cliente",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Mostra o arquivo de configuração em uso",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(a.out, "Arquivo: %s\n", a.configPath)
				fmt.Fprintf(a.out, "API: %s\n", a.client.BaseURL())
			},
		},
		&cobra.Command{
			Use:   "set-api <url>",
			Short: "Define o endereço da API",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := client.LoadConfig(a.configPath)
				if err != nil {
					return err
				}
				cfg.BaseURL = args[0]
				if err := client.SaveConfig(a.configPath, cfg); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "API definida: %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
