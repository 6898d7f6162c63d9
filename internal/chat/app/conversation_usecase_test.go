package app

import (
	"context"
	"testing"

	"pharmacy_delivery_service/internal/chat/domain"
	"pharmacy_delivery_service/internal/chat/repository"
	identity "pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.SetNewNop()
	m.Run()
}

func customerViewer() identity.Identity {
	return identity.Identity{Role: identity.RoleCustomer, ID: "cust-1", DisplayName: "Ada"}
}

func vendorViewer() identity.Identity {
	return identity.Identity{Role: identity.RoleVendorOperator, ID: "v_zen", DisplayName: "ZenCare Pharmacy"}
}

func TestConversationUseCase_SendMessage(t *testing.T) {
	ctx := context.Background()
	viewer := customerViewer()

	mockConvRepo := new(MockConversationRepository)
	mockPubSub := new(MockRedisPubSub)
	mockEvents := new(MockMessageEventPublisher)

	conv := &domain.Conversation{ID: "v_zen_cust-1", VendorID: "v_zen", CustomerID: "cust-1"}

	// customer name hint rides along on the append
	mockConvRepo.On("AppendMessage", ctx, "v_zen", "cust-1", mock.Anything, "Ada").Return(conv, nil)
	mockPubSub.On("Publish", "chat:user:v_zen", mock.Anything).Return(nil)
	mockEvents.On("PublishMessageSent", ctx, mock.Anything).Return(nil)

	uc := NewConversationUseCase(mockConvRepo, nil, mockPubSub, mockEvents)
	msg, err := uc.SendMessage(ctx, viewer, "v_zen", domain.MessageEnvelope{Text: "Do you have paracetamol?"})

	assert.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, domain.SenderCustomer, msg.From)
	assert.Positive(t, msg.At)

	mockConvRepo.AssertExpectations(t)
	mockPubSub.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestConversationUseCase_SendMessage_VendorSide(t *testing.T) {
	ctx := context.Background()
	viewer := vendorViewer()

	mockConvRepo := new(MockConversationRepository)
	conv := &domain.Conversation{ID: "v_zen_cust-1", VendorID: "v_zen", CustomerID: "cust-1"}

	// vendor replies carry no customer name hint
	mockConvRepo.On("AppendMessage", ctx, "v_zen", "cust-1", mock.Anything, "").Return(conv, nil)

	uc := NewConversationUseCase(mockConvRepo, nil, nil, nil)
	msg, err := uc.SendMessage(ctx, viewer, "cust-1", domain.MessageEnvelope{Text: "Yes, ₦1200"})

	assert.NoError(t, err)
	assert.Equal(t, domain.SenderVendor, msg.From)
	mockConvRepo.AssertExpectations(t)
}

func TestConversationUseCase_SendMessage_Empty(t *testing.T) {
	uc := NewConversationUseCase(new(MockConversationRepository), nil, nil, nil)

	_, err := uc.SendMessage(context.Background(), customerViewer(), "v_zen", domain.MessageEnvelope{})

	assert.ErrorIs(t, err, domain.ErrEmptyMessage)
}

func TestConversationUseCase_SendMessage_NotSignedIn(t *testing.T) {
	uc := NewConversationUseCase(new(MockConversationRepository), nil, nil, nil)

	_, err := uc.SendMessage(context.Background(), identity.Identity{}, "v_zen", domain.MessageEnvelope{Text: "hi"})

	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
}

func TestConversationUseCase_SendMessage_PubSubFailureIsBestEffort(t *testing.T) {
	ctx := context.Background()

	mockConvRepo := new(MockConversationRepository)
	mockPubSub := new(MockRedisPubSub)
	conv := &domain.Conversation{ID: "v_zen_cust-1", VendorID: "v_zen", CustomerID: "cust-1"}

	mockConvRepo.On("AppendMessage", ctx, "v_zen", "cust-1", mock.Anything, "Ada").Return(conv, nil)
	mockPubSub.On("Publish", "chat:user:v_zen", mock.Anything).Return(assert.AnError)

	uc := NewConversationUseCase(mockConvRepo, nil, mockPubSub, nil)
	msg, err := uc.SendMessage(ctx, customerViewer(), "v_zen", domain.MessageEnvelope{Text: "hi"})

	// the append already succeeded, a fanout failure must not surface
	assert.NoError(t, err)
	assert.NotNil(t, msg)
}

func TestConversationUseCase_StartChat(t *testing.T) {
	ctx := context.Background()
	viewer := customerViewer()

	mockConvRepo := new(MockConversationRepository)
	conv := &domain.Conversation{ID: "v_zen_cust-1", VendorID: "v_zen", CustomerID: "cust-1"}

	mockConvRepo.On("GetOrCreate", ctx, "v_zen", "cust-1", "Ada").Return(conv, nil)

	uc := NewConversationUseCase(mockConvRepo, nil, nil, nil)
	got, err := uc.StartChat(ctx, viewer, "v_zen", "")

	assert.NoError(t, err)
	assert.Equal(t, conv, got)
	mockConvRepo.AssertExpectations(t)
}

func TestConversationUseCase_StartChat_VendorRejected(t *testing.T) {
	uc := NewConversationUseCase(new(MockConversationRepository), nil, nil, nil)

	_, err := uc.StartChat(context.Background(), vendorViewer(), "v_zen", "")

	assert.ErrorIs(t, err, domain.ErrNotSignedIn)
}

func TestConversationUseCase_StartChat_WithInitialText(t *testing.T) {
	ctx := context.Background()
	viewer := customerViewer()

	mockConvRepo := new(MockConversationRepository)
	conv := &domain.Conversation{
		ID: "v_zen_cust-1", VendorID: "v_zen", CustomerID: "cust-1",
		Messages: []domain.Message{{ID: "m1", From: domain.SenderCustomer, Text: "hello", At: 100}},
	}

	mockConvRepo.On("AppendMessage", ctx, "v_zen", "cust-1", mock.Anything, "Ada").Return(conv, nil)
	mockConvRepo.On("FindByPair", ctx, "v_zen", "cust-1").Return(conv, nil)

	uc := NewConversationUseCase(mockConvRepo, nil, nil, nil)
	got, err := uc.StartChat(ctx, viewer, "v_zen", "hello")

	assert.NoError(t, err)
	assert.Len(t, got.Messages, 1)
	mockConvRepo.AssertExpectations(t)
}

func TestConversationUseCase_ListForPartner(t *testing.T) {
	ctx := context.Background()
	viewer := customerViewer()

	convs := []domain.Conversation{
		{
			ID: "v_zen_cust-1", VendorID: "v_zen", CustomerID: "cust-1",
			Messages: []domain.Message{
				{ID: "m1", From: domain.SenderCustomer, Text: "hi", At: 100},
				{ID: "m2", From: domain.SenderVendor, Text: "hello", At: 200},
			},
		},
	}

	mockConvRepo := new(MockConversationRepository)
	mockConvRepo.On("ListByCustomer", ctx, "cust-1").Return(convs, nil)

	uc := NewConversationUseCase(mockConvRepo, nil, nil, nil)
	threads, err := uc.ListForPartner(ctx, viewer)

	assert.NoError(t, err)
	assert.Len(t, threads["v_zen"], 2)
	assert.Equal(t, domain.TagMine, threads["v_zen"][0].From)
	assert.Equal(t, domain.TagTheirs, threads["v_zen"][1].From)
	// the original author role stays visible next to the viewer tag
	assert.Equal(t, domain.SenderVendor, threads["v_zen"][1].Role)
}

func TestConversationUseCase_MigrateIdentity(t *testing.T) {
	ctx := context.Background()

	mockConvRepo := new(MockConversationRepository)
	mockWmRepo := new(MockWatermarkRepository)

	mockConvRepo.On("MigrateParticipant", ctx, repository.SideCustomer, "anon-1", "uid-1").Return(nil)
	mockWmRepo.On("Load", ctx, "PD_LAST_MSG_SEEN_CUST_anon-1").Return(int64(500), nil)
	mockWmRepo.On("Load", ctx, "PD_LAST_MSG_SEEN_CUST_uid-1").Return(int64(0), nil)
	mockWmRepo.On("Store", ctx, "PD_LAST_MSG_SEEN_CUST_uid-1", int64(500)).Return(nil)

	uc := NewConversationUseCase(mockConvRepo, mockWmRepo, nil, nil)
	err := uc.MigrateIdentity(ctx, identity.RoleCustomer, "anon-1", "uid-1")

	assert.NoError(t, err)
	mockConvRepo.AssertExpectations(t)
	mockWmRepo.AssertExpectations(t)
}

func TestConversationUseCase_MigrateIdentity_KeepsNewerWatermark(t *testing.T) {
	ctx := context.Background()

	mockConvRepo := new(MockConversationRepository)
	mockWmRepo := new(MockWatermarkRepository)

	mockConvRepo.On("MigrateParticipant", ctx, repository.SideCustomer, "anon-1", "uid-1").Return(nil)
	mockWmRepo.On("Load", ctx, "PD_LAST_MSG_SEEN_CUST_anon-1").Return(int64(300), nil)
	mockWmRepo.On("Load", ctx, "PD_LAST_MSG_SEEN_CUST_uid-1").Return(int64(900), nil)

	uc := NewConversationUseCase(mockConvRepo, mockWmRepo, nil, nil)
	err := uc.MigrateIdentity(ctx, identity.RoleCustomer, "anon-1", "uid-1")

	// the new identity already saw more, the watermark must not move back
	assert.NoError(t, err)
	mockWmRepo.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything)
}
