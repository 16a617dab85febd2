package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Mostra o seu perfil",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(routeProfile); err != nil {
				return err
			}
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			printUser(a.out, user)
			return nil
		},
	}

	cmd.AddCommand(
		profileUpdateCmd(a),
		changePasswordCmd(a),
	)
	return cmd
}

func profileUpdateCmd(a *app) *cobra.Command {
	var name, avatar string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Altera nome e foto",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(routeProfile); err != nil {
				return err
			}
			if name == "" && avatar == "" {
				return errors.New("informe --name ou --avatar")
			}

			avatarURL, err := a.uploadImage(cmd.Context(), "avatars", avatar)
			if err != nil {
				return err
			}
			var newName *string
			if name != "" {
				newName = &name
			}

			user, err := a.client.UpdateProfile(cmd.Context(), newName, avatarURL)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Perfil atualizado.")
			printUser(a.out, user)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "novo nome de exibição")
	cmd.Flags().StringVar(&avatar, "avatar", "", "arquivo de imagem para a foto de perfil")
	return cmd
}

func changePasswordCmd(a *app) *cobra.Command {
	var current, next, confirm string

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Troca a senha",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.enter(routeProfile); err != nil {
				return err
			}

			var err error
			if current, err = a.secret("Senha atual", current); err != nil {
				return err
			}
			if next, err = a.secret("Nova senha", next); err != nil {
				return err
			}
			if confirm, err = a.secret("Confirme a nova senha", confirm); err != nil {
				return err
			}

			switch {
			case current == "":
				return errors.New("senha atual é obrigatória")
			case len([]rune(next)) < minPasswordLength:
				return fmt.Errorf("a nova senha deve ter pelo menos %d caracteres", minPasswordLength)
			case next != confirm:
				return errors.New("as senhas não coincidem")
			}

			if err := a.client.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Senha alterada com sucesso.")
			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "senha atual")
	cmd.Flags().StringVar(&next, "new", "", "nova senha")
	cmd.Flags().StringVar(&confirm, "confirm", "", "confirmação da nova senha")
	return cmd
}
