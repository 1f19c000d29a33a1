package render

// Labels are the fixed UI strings of one locale.
type Labels struct {
	Lang        string
	Placeholder string
	Working     string
	Chart1      string
	Chart2      string
	Data        string
	SQL         string
	Send        string
	NewChat     string
	Suggestions string
	GoodAnswer  string
	Thanks      string
	Logout      string
	AccessKey   string
	SignIn      string
	InvalidKey  string
	Failed      string
}

var labels = map[string]Labels{
	"en": {
		Lang:        "en",
		Placeholder: "What are you looking for?",
		Working:     "Working...",
		Chart1:      "Chart 1",
		Chart2:      "Chart 2",
		Data:        "Data",
		SQL:         "SQL",
		Send:        "Send",
		NewChat:     "New chat",
		Suggestions: "Try asking",
		GoodAnswer:  "Good answer",
		Thanks:      "Thanks!",
		Logout:      "Log out",
		AccessKey:   "Access key",
		SignIn:      "Sign in",
		InvalidKey:  "Invalid access key.",
		Failed:      "Something went wrong. Please try again.",
	},
	"pt": {
		Lang:        "pt-BR",
		Placeholder: "O que você está buscando?",
		Working:     "Trabalhando...",
		Chart1:      "Gráfico 1",
		Chart2:      "Gráfico 2",
		Data:        "Dados",
		SQL:         "SQL",
		Send:        "Enviar",
		NewChat:     "Nova conversa",
		Suggestions: "Experimente perguntar",
		GoodAnswer:  "Boa resposta",
		Thanks:      "Obrigado!",
		Logout:      "Sair",
		AccessKey:   "Chave de acesso",
		SignIn:      "Entrar",
		InvalidKey:  "Chave de acesso inválida.",
		Failed:      "Algo deu errado. Tente novamente.",
	},
}

// LabelsFor returns the labels of locale, falling back to English.
func LabelsFor(locale string) Labels {
	if l, ok := labels[locale]; ok {
		return l
	}
	return labels["en"]
}
