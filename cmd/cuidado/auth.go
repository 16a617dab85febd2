package main

import (
	"errors"
	"fmt"
	"net/mail"

	"github.com/cuidadomaisfamilia/cuidado-api/internal/guard"
	"github.com/spf13/cobra"
)

const minPasswordLength = 6

func validateCredentials(email, password string) error {
	switch {
	case email == "":
		return errors.New("email é obrigatório")
	case !validEmail(email):
		return errors.New("email inválido")
	case password == "":
		return errors.New("senha é obrigatória")
	case len([]rune(password)) < minPasswordLength:
		return fmt.Errorf("a senha deve ter pelo menos %d caracteres", minPasswordLength)
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

func loginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Entra na sua conta",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.enterPublic(guard.LoginRoute) {
				fmt.Fprintln(a.out, "Você já está conectado.")
				return nil
			}

			var err error
			if email, err = a.prompt("Email", email); err != nil {
				return err
			}
			if password, err = a.secret("Senha", password); err != nil {
				return err
			}
			if err := validateCredentials(email, password); err != nil {
				return err
			}

			if _, err := a.client.SignIn(cmd.Context(), email, password); err != nil {
				return err
			}
			a.greet(cmd)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email da conta")
	cmd.Flags().StringVar(&password, "password", "", "senha")
	return cmd
}

func signupCmd(a *app) *cobra.Command {
	var name, email, password, confirm string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Cria uma conta",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.enterPublic(guard.SignupRoute) {
				fmt.Fprintln(a.out, "Você já está conectado.")
				return nil
			}

			var err error
			if name, err = a.prompt("Nome", name); err != nil {
				return err
			}
			if email, err = a.prompt("Email", email); err != nil {
				return err
			}
			if password, err = a.secret("Senha", password); err != nil {
				return err
			}
			if confirm, err = a.secret("Confirme a senha", confirm); err != nil {
				return err
			}

			if name == "" {
				return errors.New("nome é obrigatório")
			}
			if err := validateCredentials(email, password); err != nil {
				return err
			}
			if password != confirm {
				return errors.New("as senhas não coincidem")
			}

			if _, err := a.client.SignUp(cmd.Context(), email, password, name); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Conta criada com sucesso.")
			a.greet(cmd)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "nome de exibição")
	cmd.Flags().StringVar(&email, "email", "", "email da conta")
	cmd.Flags().StringVar(&password, "password", "", "senha")
	cmd.Flags().StringVar(&confirm, "confirm-password", "", "confirmação da senha")
	return cmd
}

func forgotPasswordCmd(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Envia o link de redefinição de senha",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.enterPublic(guard.ForgotPasswordRoute) {
				fmt.Fprintln(a.out, "Você já está conectado. Use \"cuidado profile change-password\".")
				return nil
			}

			var err error
			if email, err = a.prompt("Email", email); err != nil {
				return err
			}
			if !validEmail(email) {
				return errors.New("email inválido")
			}

			if err := a.client.SendPasswordReset(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Enviamos um link de redefinição para %s. Verifique sua caixa de entrada.\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email da conta")
	return cmd
}

func resetPasswordCmd(a *app) *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Define uma nova senha com o código recebido por email",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.enterPublic(guard.ForgotPasswordRoute) {
				fmt.Fprintln(a.out, "Você já está conectado.")
				return nil
			}

			var err error
			if token, err = a.prompt("Código", token); err != nil {
				return err
			}
			if password, err = a.secret("Nova senha", password); err != nil {
				return err
			}
			if len([]rune(password)) < minPasswordLength {
				return fmt.Errorf("a senha deve ter pelo menos %d caracteres", minPasswordLength)
			}

			if err := a.client.ConfirmPasswordReset(cmd.Context(), token, password); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Senha redefinida. Entre com \"cuidado login\".")
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "código do link de redefinição")
	cmd.Flags().StringVar(&password, "password", "", "nova senha")
	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	var everywhere bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Sai da conta",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.store.IsAuthenticated() {
				fmt.Fprintln(a.out, "Nenhuma sessão ativa.")
				return nil
			}

			var err error
			if everywhere {
				err = a.client.SignOutEverywhere(cmd.Context())
			} else {
				err = a.client.SignOut(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Sessão encerrada.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&everywhere, "everywhere", false, "encerra todas as sessões da conta")
	return cmd
}

// greet runs after a sign-in, once the guard has moved off the public screen.
func (a *app) greet(cmd *cobra.Command) {
	st := a.store.State()
	if st.Identity == nil {
		return
	}
	fmt.Fprintf(a.out, "Bem-vindo(a), %s!\n", displayName(st.Identity))
	if a.isAdmin(cmd.Context()) {
		fmt.Fprintln(a.out, "Você entrou como Administrador.")
	}
}
