// Package catalog holds the fixed reference lists offered by the listing
// forms.
package catalog

var specialties = []string{
	"Pediatria",
	"Cardiologia",
	"Neurologia",
	"Ortopedia",
	"Dermatologia",
	"Psiquiatria",
	"Ginecologia",
	"Oftalmologia",
	"Otorrinolaringologia",
	"Urologia",
	"Endocrinologia",
	"Geriatria",
	"Nutrição",
	"Fisioterapia",
	"Psicologia",
	"Terapia Ocupacional",
	"Fonoaudiologia",
	"Odontologia",
}

var categories = []string{
	"Gestantes",
	"Maternidade",
	"Saúde",
	"Idosos",
	"Atividade Física",
	"Bem-estar",
	"Cuidadores",
	"Apoio Emocional",
	"Saúde Mental",
	"Nutrição",
	"Alimentação",
	"Educação",
	"Inclusão",
	"Esporte",
	"Família",
	"Crianças",
	"Adolescentes",
	"Terceira Idade",
	"Voluntariado",
	"Meio Ambiente",
}

// Specialties returns a copy of the medical specialty list.
func Specialties() []string {
	return append([]string(nil), specialties...)
}

// Categories returns a copy of the blog and community category list.
func Categories() []string {
	return append([]string(nil), categories...)
}
