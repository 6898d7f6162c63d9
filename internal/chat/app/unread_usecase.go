package app

import (
	"context"
	"time"

	"pharmacy_delivery_service/internal/chat/domain"
	"pharmacy_delivery_service/internal/chat/repository"
	identity "pharmacy_delivery_service/internal/identity/domain"
)

// UnreadUseCase per-identity watermark tracking and unread counting
type UnreadUseCase struct {
	wmRepo repository.WatermarkRepository
	now    func() int64
}

// NewUnreadUseCase create an UnreadUseCase
func NewUnreadUseCase(wmRepo repository.WatermarkRepository) *UnreadUseCase {
	return &UnreadUseCase{
		wmRepo: wmRepo,
		now:    func() int64 { return time.Now().UnixMilli() },
	}
}

// Load persisted watermark of the viewer, 0 when never set
func (uc *UnreadUseCase) Load(ctx context.Context, viewer identity.Identity) (int64, error) {
	if !viewer.Valid() {
		return 0, domain.ErrNotSignedIn
	}
	return uc.wmRepo.Load(ctx, domain.WatermarkKey(viewer))
}

// MarkSeenNow move the watermark to the current time. Called when the viewer
// opens the messages view. Never moves backwards.
func (uc *UnreadUseCase) MarkSeenNow(ctx context.Context, viewer identity.Identity) (int64, error) {
	if !viewer.Valid() {
		return 0, domain.ErrNotSignedIn
	}

	key := domain.WatermarkKey(viewer)
	current, err := uc.wmRepo.Load(ctx, key)
	if err != nil {
		return 0, err
	}

	now := uc.now()
	if now <= current {
		return current, nil
	}
	if err := uc.wmRepo.Store(ctx, key, now); err != nil {
		return 0, err
	}
	return now, nil
}

// UnreadForConversation counterpart-authored messages strictly after since.
// The viewer's own messages are never counted.
func (uc *UnreadUseCase) UnreadForConversation(viewer identity.Identity, conv domain.Conversation, since int64) int {
	counterpart := domain.CounterpartRole(viewer.Role)
	count := 0
	for _, m := range conv.Messages {
		if m.From == counterpart && m.At > since {
			count++
		}
	}
	return count
}

// UnreadTotal sum of unread across every conversation of the viewer. The
// watermark is re-read on each call, it is the one piece of state a
// concurrent viewer session can move underneath us.
func (uc *UnreadUseCase) UnreadTotal(ctx context.Context, viewer identity.Identity, convs []domain.Conversation) (int, error) {
	since, err := uc.Load(ctx, viewer)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, c := range convs {
		if !conversationBelongsTo(viewer, c) {
			continue
		}
		total += uc.UnreadForConversation(viewer, c, since)
	}
	return total, nil
}

func conversationBelongsTo(viewer identity.Identity, c domain.Conversation) bool {
	if viewer.Role == identity.RoleVendorOperator {
		return c.VendorID == viewer.ID
	}
	return c.CustomerID == viewer.ID
}
