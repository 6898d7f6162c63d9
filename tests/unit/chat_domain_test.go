package unit

import (
	"testing"

	chat "pharmacy_delivery_service/internal/chat/domain"
	identity "pharmacy_delivery_service/internal/identity/domain"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyDeterministic(t *testing.T) {
	assert.Equal(t, "v_zen_cust-1", chat.PairKey("v_zen", "cust-1"))
	assert.Equal(t, chat.PairKey("v_zen", "cust-1"), chat.PairKey("v_zen", "cust-1"))
}

func TestWatermarkKeyPerRole(t *testing.T) {
	vendor := identity.Identity{Role: identity.RoleVendorOperator, ID: "v_zen"}
	customer := identity.Identity{Role: identity.RoleCustomer, ID: "cust-1"}

	assert.Equal(t, "PD_LAST_MSG_SEEN_PHARM_v_zen", chat.WatermarkKey(vendor))
	assert.Equal(t, "PD_LAST_MSG_SEEN_CUST_cust-1", chat.WatermarkKey(customer))
}

func TestCounterpartRole(t *testing.T) {
	assert.Equal(t, chat.SenderCustomer, chat.CounterpartRole(identity.RoleVendorOperator))
	assert.Equal(t, chat.SenderVendor, chat.CounterpartRole(identity.RoleCustomer))
	assert.Equal(t, chat.SenderVendor, chat.OwnRole(identity.RoleVendorOperator))
	assert.Equal(t, chat.SenderCustomer, chat.OwnRole(identity.RoleCustomer))
}

func TestKindForMime(t *testing.T) {
	assert.Equal(t, chat.AttachmentImage, chat.KindForMime("image/png"))
	assert.Equal(t, chat.AttachmentImage, chat.KindForMime("image/jpeg"))
	assert.Equal(t, chat.AttachmentFile, chat.KindForMime("application/pdf"))
	assert.Equal(t, chat.AttachmentFile, chat.KindForMime(""))
}

func TestMessageSnapshot(t *testing.T) {
	msg := chat.Message{ID: "m1", From: chat.SenderVendor, Text: "Yes, ₦1200", At: 100}
	ref := msg.Snapshot()

	assert.Equal(t, "m1", ref.ID)
	assert.Equal(t, "Yes, ₦1200", ref.Text)
	assert.Equal(t, chat.SenderVendor, ref.From)
	assert.Equal(t, int64(100), ref.At)
}

func TestLastMessage(t *testing.T) {
	conv := chat.Conversation{}
	assert.Nil(t, conv.LastMessage())

	conv.Messages = []chat.Message{{ID: "m1", At: 100}, {ID: "m2", At: 200}}
	assert.Equal(t, "m2", conv.LastMessage().ID)
}
