package autherr

const defaultMessage = "Ocorreu um erro durante a autenticação."

var messages = map[Kind]string{
	KindInvalidEmail:        "O endereço de e-mail não é válido.",
	KindUserDisabled:        "Esta conta de usuário foi desativada.",
	KindUserNotFound:        "Não há usuário com este e-mail.",
	KindWrongPassword:       "Senha incorreta.",
	KindEmailAlreadyInUse:   "Este e-mail já está sendo usado por outra conta.",
	KindWeakPassword:        "A senha é muito fraca. Use pelo menos 6 caracteres.",
	KindOperationNotAllowed: "Operação não permitida.",
	KindTooManyRequests:     "Muitas tentativas de login. Tente novamente mais tarde.",
	KindRequiresRecentLogin: "Esta operação é sensível e requer autenticação recente. Por favor, faça login novamente.",
	KindInvalidToken:        "O link utilizado é inválido ou expirou.",
}

// Message returns the localized message for kind.
func Message(kind Kind) string {
	if msg, ok := messages[kind]; ok {
		return msg
	}
	return defaultMessage
}

// MessageFor returns the localized message for err's kind.
func MessageFor(err error) string {
	return Message(KindOf(err))
}

// Known reports whether kind is one of the defined kinds.
func Known(kind Kind) bool {
	_, ok := messages[kind]
	return ok
}
