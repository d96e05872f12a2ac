package report

import "go.uber.org/zap"

// Conversation metric keys. Their coordinates live in the layout like any
// other row.
const (
	ConvOpen           = "Tudo aberto em conversas"
	ConvUnassigned     = "Não atribuído"
	ConvAwaitingReply  = "Última Resposta (cliente)"
	ConvMaxReplyMinute = "Tempo máx. última resposta (min)"
)

// ConversationKeys lists the conversation rows in report order.
var ConversationKeys = []string{ConvOpen, ConvUnassigned, ConvAwaitingReply, ConvMaxReplyMinute}

// ConversationMetrics returns the inbox rows. They are placeholders until
// the conversations API source is wired up, so every value is 0 and no
// request is made.
func ConversationMetrics(inboxID string) *Metrics {
	if inboxID != "" {
		zap.L().Debug("report: conversation metrics are not fetched yet", zap.String("inbox_id", inboxID))
	}
	return ZeroMetrics(ConversationKeys)
}
