package app

import (
	"context"
	"fmt"

	"pharmacy_delivery_service/internal/chat/domain"
	"pharmacy_delivery_service/internal/chat/repository"
	identity "pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/pkg/logger"
)

// Publisher live-update fanout consumed by the send path
type Publisher interface {
	Publish(channel string, message interface{}) error
}

// ConversationUseCase conversation store operations for one messaging node
type ConversationUseCase struct {
	convRepo repository.ConversationRepository
	wmRepo   repository.WatermarkRepository
	pubsub   Publisher
	events   repository.MessageEventPublisher
}

// NewConversationUseCase create a ConversationUseCase. pubsub and events may
// be nil when the node runs without fanout or audit.
func NewConversationUseCase(
	convRepo repository.ConversationRepository,
	wmRepo repository.WatermarkRepository,
	pubsub Publisher,
	events repository.MessageEventPublisher,
) *ConversationUseCase {
	return &ConversationUseCase{
		convRepo: convRepo,
		wmRepo:   wmRepo,
		pubsub:   pubsub,
		events:   events,
	}
}

// GetOrCreate resolve the single conversation of a pair, creating it lazily
func (uc *ConversationUseCase) GetOrCreate(ctx context.Context, vendorID, customerID, customerNameHint string) (*domain.Conversation, error) {
	return uc.convRepo.GetOrCreate(ctx, vendorID, customerID, customerNameHint)
}

// SendMessage compose-and-append for the signed-in viewer. The partner id is
// the vendor for a customer viewer and the customer for a vendor operator.
func (uc *ConversationUseCase) SendMessage(ctx context.Context, viewer identity.Identity, partnerID string, envelope domain.MessageEnvelope) (*domain.Message, error) {
	if !viewer.Valid() {
		return nil, domain.ErrNotSignedIn
	}
	if envelope.Text == "" && len(envelope.Attachments) == 0 {
		return nil, domain.ErrEmptyMessage
	}

	vendorID, customerID := uc.pairFor(viewer, partnerID)
	nameHint := ""
	if viewer.Role == identity.RoleCustomer {
		nameHint = viewer.DisplayName
	}

	msg := newMessage(envelope, domain.OwnRole(viewer.Role))
	conv, err := uc.convRepo.AppendMessage(ctx, vendorID, customerID, msg, nameHint)
	if err != nil {
		return nil, err
	}

	// fanout to the counterpart, best effort
	if uc.pubsub != nil {
		if err := uc.pubsub.Publish(repository.ChannelFor(partnerID), msg); err != nil {
			logger.Log.Errorf("publish message :", err)
		}
	}

	if uc.events != nil {
		event := domain.MessageSentEvent{
			ConversationID: conv.ID,
			MessageID:      msg.ID,
			VendorID:       vendorID,
			CustomerID:     customerID,
			From:           msg.From,
			At:             msg.At,
			HasAttachments: len(msg.Attachments) > 0,
		}
		if err := uc.events.PublishMessageSent(ctx, event); err != nil {
			logger.Log.Errorf("publish message event :", err)
		}
	}

	return &msg, nil
}

// StartChat customer opens a thread with a vendor, optionally with a first
// message, before navigating to the messages view
func (uc *ConversationUseCase) StartChat(ctx context.Context, viewer identity.Identity, vendorID, initialText string) (*domain.Conversation, error) {
	if !viewer.Valid() || viewer.Role != identity.RoleCustomer {
		return nil, domain.ErrNotSignedIn
	}

	if initialText != "" {
		envelope, err := Compose(initialText, nil, nil)
		if err != nil {
			return nil, err
		}
		if _, err := uc.SendMessage(ctx, viewer, vendorID, envelope); err != nil {
			return nil, err
		}
		return uc.convRepo.FindByPair(ctx, vendorID, viewer.ID)
	}

	return uc.convRepo.GetOrCreate(ctx, vendorID, viewer.ID, viewer.DisplayName)
}

// ConversationsFor every conversation where the viewer's id matches its side
// of the pair
func (uc *ConversationUseCase) ConversationsFor(ctx context.Context, viewer identity.Identity) ([]domain.Conversation, error) {
	if !viewer.Valid() {
		return nil, domain.ErrNotSignedIn
	}
	if viewer.Role == identity.RoleVendorOperator {
		return uc.convRepo.ListByVendor(ctx, viewer.ID)
	}
	return uc.convRepo.ListByCustomer(ctx, viewer.ID)
}

// ListForPartner partner-keyed, viewer-relative view of the message logs
func (uc *ConversationUseCase) ListForPartner(ctx context.Context, viewer identity.Identity) (map[string][]domain.ViewMessage, error) {
	convs, err := uc.ConversationsFor(ctx, viewer)
	if err != nil {
		return nil, err
	}

	own := domain.OwnRole(viewer.Role)
	threads := make(map[string][]domain.ViewMessage, len(convs))
	for _, c := range convs {
		partnerID := c.VendorID
		if viewer.Role == identity.RoleVendorOperator {
			partnerID = c.CustomerID
		}

		msgs := threads[partnerID]
		for _, m := range c.Messages {
			tag := domain.TagTheirs
			if m.From == own {
				tag = domain.TagMine
			}
			msgs = append(msgs, domain.ViewMessage{
				ID:          m.ID,
				From:        tag,
				Role:        m.From,
				Text:        m.Text,
				At:          m.At,
				Attachments: m.Attachments,
				ReplyTo:     m.ReplyTo,
			})
		}
		threads[partnerID] = msgs
	}

	return threads, nil
}

// Thread viewer-relative log of a single counterparty
func (uc *ConversationUseCase) Thread(ctx context.Context, viewer identity.Identity, partnerID string) ([]domain.ViewMessage, error) {
	threads, err := uc.ListForPartner(ctx, viewer)
	if err != nil {
		return nil, err
	}
	return threads[partnerID], nil
}

// MigrateIdentity versioned re-key of one participant from a prior identity
// scheme onto the canonical id. Conversations merge under the new pair key
// and the watermark moves with them.
func (uc *ConversationUseCase) MigrateIdentity(ctx context.Context, role identity.Role, oldID, newID string) error {
	side := repository.SideCustomer
	if role == identity.RoleVendorOperator {
		side = repository.SideVendor
	}

	if err := uc.convRepo.MigrateParticipant(ctx, side, oldID, newID); err != nil {
		return err
	}

	oldKey := domain.WatermarkKey(identity.Identity{Role: role, ID: oldID})
	newKey := domain.WatermarkKey(identity.Identity{Role: role, ID: newID})
	at, err := uc.wmRepo.Load(ctx, oldKey)
	if err != nil {
		return fmt.Errorf("load watermark %s: %w", oldKey, err)
	}
	current, err := uc.wmRepo.Load(ctx, newKey)
	if err != nil {
		return fmt.Errorf("load watermark %s: %w", newKey, err)
	}
	// keep the watermark non-decreasing across the migration
	if at > current {
		if err := uc.wmRepo.Store(ctx, newKey, at); err != nil {
			return fmt.Errorf("store watermark %s: %w", newKey, err)
		}
	}
	return nil
}

func (uc *ConversationUseCase) pairFor(viewer identity.Identity, partnerID string) (vendorID, customerID string) {
	if viewer.Role == identity.RoleVendorOperator {
		return viewer.ID, partnerID
	}
	return partnerID, viewer.ID
}
