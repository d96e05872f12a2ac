package report

import "strings"

// SlotsPlaceholder is replaced by the agenda block in the caption template.
const SlotsPlaceholder = "{SLOTS}"

// DefaultCaptionTemplate is the shift hand-off message posted with the image.
const DefaultCaptionTemplate = `Bom dia, timaõzão!
Bora de reporte deste turno que se encerra.
Iniciamos com a fila completamente controlada, permaneceu assim durante todo turno.
Passei por todas as filas principais de tratativas internas (Novo, Col Pendências, Em Tratativa, Retornos 1/2/3, Financeiro, ProCGS, Sol Img, Erros automação).

Agenda / Pendências :calendário_espiral:
{SLOTS}

Lembretes :anotações:
Mapeamento de oportunidades na Central - Thread
Fluxo de compartilhamento de imagem/Drive - Thread
Alinhamento dos Slots - Thread

Eras isso meu povo, vamos que bora! Boa semana a todos :coração_verde:
`

// BuildCaption substitutes the slots block into tmpl. An empty tmpl uses
// DefaultCaptionTemplate. Only the placeholder is replaced; no other
// templating is applied.
func BuildCaption(tmpl, slots string) string {
	if tmpl == "" {
		tmpl = DefaultCaptionTemplate
	}
	return strings.ReplaceAll(tmpl, SlotsPlaceholder, strings.TrimRight(slots, "\n"))
}
