package chat

import "math/rand/v2"

// Phrasebook is the fixed set of canned texts for one locale.
type Phrasebook struct {
	Acknowledgments []string
	Apologies       []string
}

var phrasebooks = map[string]Phrasebook{
	"en": {
		Acknowledgments: []string{
			"I'd be glad to help! Here's your answer!",
			"Great question! Let me get your request...",
			"Absolutely!",
			"Of course! Here's the data requested.",
		},
		Apologies: []string{
			"Hmm, I'm still learning about that. Could you rephrase your question, or provide more context?",
			"I'm not able to find a direct answer right now.",
			"That's a bit outside of my area of expertise.",
			"I'm having trouble to find this information.",
			"It seems like I might need some more training on that topic.",
		},
	},
	"pt": {
		Acknowledgments: []string{
			"Com prazer! Aqui está a sua resposta!",
			"Ótima pergunta! Vou buscar isso para você...",
			"Claro!",
			"Com certeza! Aqui estão os dados solicitados.",
			"Pronto! Veja o que encontrei.",
		},
		Apologies: []string{
			"Hmm, ainda estou aprendendo sobre isso. Você poderia reformular a pergunta ou dar mais contexto?",
			"Não consegui encontrar uma resposta direta agora.",
			"Isso está um pouco fora da minha área de conhecimento.",
			"Estou com dificuldade para encontrar essa informação.",
			"Parece que preciso de mais treinamento sobre esse assunto.",
		},
	},
}

// PhrasesFor returns the phrasebook of locale, or the English one when the
// locale is unknown.
func PhrasesFor(locale string) Phrasebook {
	if pb, ok := phrasebooks[locale]; ok {
		return pb
	}
	return phrasebooks["en"]
}

// Picker returns an index in [0, n).
type Picker func(n int) int

func randomPick(n int) int { return rand.IntN(n) }

func (pb Phrasebook) acknowledgment(pick Picker) string {
	return choose(pb.Acknowledgments, pick)
}

func (pb Phrasebook) apology(pick Picker) string {
	return choose(pb.Apologies, pick)
}

func choose(set []string, pick Picker) string {
	if len(set) == 0 {
		return ""
	}
	i := pick(len(set))
	if i < 0 || i >= len(set) {
		i = 0
	}
	return set[i]
}
