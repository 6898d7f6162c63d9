package app

import (
	"context"

	"pharmacy_delivery_service/internal/chat/domain"
	"pharmacy_delivery_service/internal/chat/repository"
	directory "pharmacy_delivery_service/internal/directory/domain"
	identity "pharmacy_delivery_service/internal/identity/domain"

	"github.com/stretchr/testify/mock"
)

// MockConversationRepository Mock ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

// GetOrCreate mock get or create conversation
func (m *MockConversationRepository) GetOrCreate(ctx context.Context, vendorID, customerID, customerNameHint string) (*domain.Conversation, error) {
	args := m.Called(ctx, vendorID, customerID, customerNameHint)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// AppendMessage mock append message
func (m *MockConversationRepository) AppendMessage(ctx context.Context, vendorID, customerID string, msg domain.Message, customerNameHint string) (*domain.Conversation, error) {
	args := m.Called(ctx, vendorID, customerID, msg, customerNameHint)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByPair mock find conversation by pair
func (m *MockConversationRepository) FindByPair(ctx context.Context, vendorID, customerID string) (*domain.Conversation, error) {
	args := m.Called(ctx, vendorID, customerID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByVendor mock list conversations of a vendor
func (m *MockConversationRepository) ListByVendor(ctx context.Context, vendorID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListByCustomer mock list conversations of a customer
func (m *MockConversationRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Conversation, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// MigrateParticipant mock re-key one participant
func (m *MockConversationRepository) MigrateParticipant(ctx context.Context, side repository.ParticipantSide, oldID, newID string) error {
	args := m.Called(ctx, side, oldID, newID)
	return args.Error(0)
}

// MockWatermarkRepository Mock WatermarkRepository
type MockWatermarkRepository struct {
	mock.Mock
}

// Load mock load watermark
func (m *MockWatermarkRepository) Load(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(int64), args.Error(1)
}

// Store mock store watermark
func (m *MockWatermarkRepository) Store(ctx context.Context, key string, at int64) error {
	args := m.Called(ctx, key, at)
	return args.Error(0)
}

// MockRedisPubSub Mock RedisPubSub
type MockRedisPubSub struct {
	mock.Mock
}

// Publish mock publisher
func (m *MockRedisPubSub) Publish(channel string, message interface{}) error {
	args := m.Called(channel, message)
	return args.Error(0)
}

// Subscribe mock subscriber
func (m *MockRedisPubSub) Subscribe(ctx context.Context, channel string, handler func(resp domain.WSResponse)) error {
	args := m.Called(channel, handler)
	return args.Error(0)
}

// MockMessageEventPublisher Mock MessageEventPublisher
type MockMessageEventPublisher struct {
	mock.Mock
}

// PublishMessageSent mock publish audit event
func (m *MockMessageEventPublisher) PublishMessageSent(ctx context.Context, event domain.MessageSentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockDirectoryGateway Mock DirectoryGateway
type MockDirectoryGateway struct {
	mock.Mock
}

// GetVendorByID mock vendor lookup
func (m *MockDirectoryGateway) GetVendorByID(ctx context.Context, vendorID string) (*directory.Vendor, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) != nil {
		return args.Get(0).(*directory.Vendor), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIdentityResolver Mock IdentityResolver
type MockIdentityResolver struct {
	mock.Mock
}

// Resolve mock resolve account onto a chat identity
func (m *MockIdentityResolver) Resolve(ctx context.Context, accountID string) (identity.Identity, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(identity.Identity), args.Error(1)
}
