package app

import (
	"strings"
	"time"

	"pharmacy_delivery_service/internal/chat/domain"

	"github.com/google/uuid"
)

// Compose validate a draft into an outgoing envelope. A message must carry
// text or at least one attachment; attachment order follows selection order;
// the reply reference is a value snapshot of the quoted message.
func Compose(text string, attachments []domain.Attachment, replyTo *domain.ReplyRef) (domain.MessageEnvelope, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(attachments) == 0 {
		return domain.MessageEnvelope{}, domain.ErrEmptyMessage
	}

	atts := make([]domain.Attachment, len(attachments))
	for i, a := range attachments {
		if a.Kind == "" {
			a.Kind = domain.KindForMime(a.MimeType)
		}
		atts[i] = a
	}
	if len(atts) == 0 {
		atts = nil
	}

	var ref *domain.ReplyRef
	if replyTo != nil {
		snapshot := *replyTo
		ref = &snapshot
	}

	return domain.MessageEnvelope{
		Text:        text,
		Attachments: atts,
		ReplyTo:     ref,
	}, nil
}

// newMessage stamp the envelope into an immutable log entry
func newMessage(envelope domain.MessageEnvelope, from domain.SenderRole) domain.Message {
	return domain.Message{
		ID:          uuid.New().String(),
		From:        from,
		Text:        envelope.Text,
		At:          time.Now().UnixMilli(),
		Attachments: envelope.Attachments,
		ReplyTo:     envelope.ReplyTo,
	}
}
