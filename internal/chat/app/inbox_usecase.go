package app

import (
	"context"
	"fmt"
	"sort"

	"pharmacy_delivery_service/internal/chat/domain"
	directory "pharmacy_delivery_service/internal/directory/domain"
	identity "pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/pkg/logger"
)

// DirectoryGateway vendor name/contact lookup consumed by the projector
type DirectoryGateway interface {
	GetVendorByID(ctx context.Context, vendorID string) (*directory.Vendor, error)
}

// InboxUseCase projects the symmetric conversation store into the
// role-specific, partner-named, chronologically sorted inbox
type InboxUseCase struct {
	convUC    *ConversationUseCase
	unreadUC  *UnreadUseCase
	directory DirectoryGateway
}

// NewInboxUseCase create an InboxUseCase
func NewInboxUseCase(convUC *ConversationUseCase, unreadUC *UnreadUseCase, directory DirectoryGateway) *InboxUseCase {
	return &InboxUseCase{
		convUC:    convUC,
		unreadUC:  unreadUC,
		directory: directory,
	}
}

// Project one ThreadSummary per counterparty, most recently active first
func (uc *InboxUseCase) Project(ctx context.Context, viewer identity.Identity) ([]domain.ThreadSummary, error) {
	convs, err := uc.convUC.ConversationsFor(ctx, viewer)
	if err != nil {
		return nil, err
	}

	since, err := uc.unreadUC.Load(ctx, viewer)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.ThreadSummary, 0, len(convs))
	for _, c := range convs {
		summary := domain.ThreadSummary{
			LastActivityAt:  c.LastActivityAt,
			LastPreviewText: previewText(c),
			Unread:          uc.unreadUC.UnreadForConversation(viewer, c, since),
		}

		if viewer.Role == identity.RoleVendorOperator {
			summary.PartnerID = c.CustomerID
			summary.PartnerDisplayName = c.CustomerName
			if summary.PartnerDisplayName == "" {
				summary.PartnerDisplayName = identity.FallbackCustomerName(c.CustomerID)
			}
		} else {
			summary.PartnerID = c.VendorID
			vendor, err := uc.directory.GetVendorByID(ctx, c.VendorID)
			if err != nil {
				logger.Log.Errorf("directory lookup :", err)
			}
			if vendor != nil {
				summary.PartnerDisplayName = vendor.Name
				summary.IsKnownVendor = true
			} else {
				// directory miss degrades to an unnamed counterpart
				summary.PartnerDisplayName = identity.FallbackVendorName(c.VendorID)
			}
		}

		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastActivityAt > summaries[j].LastActivityAt
	})

	return summaries, nil
}

// previewText newest message text, attachment count fallback, placeholder
// for an empty thread
func previewText(c domain.Conversation) string {
	last := c.LastMessage()
	if last == nil {
		return "No messages yet"
	}
	if last.Text != "" {
		return last.Text
	}
	if n := len(last.Attachments); n > 0 {
		return fmt.Sprintf("%d attachment(s)", n)
	}
	return "No messages yet"
}
