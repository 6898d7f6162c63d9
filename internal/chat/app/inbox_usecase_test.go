package app

import (
	"context"
	"testing"

	"pharmacy_delivery_service/internal/chat/domain"
	directory "pharmacy_delivery_service/internal/directory/domain"

	"github.com/stretchr/testify/assert"
)

func newInboxFixture(t *testing.T, convs []domain.Conversation, wmKey string, since int64) (*InboxUseCase, *MockDirectoryGateway) {
	t.Helper()

	mockConvRepo := new(MockConversationRepository)
	mockConvRepo.On("ListByVendor", context.Background(), "v_zen").Return(convs, nil)
	mockConvRepo.On("ListByCustomer", context.Background(), "cust-1").Return(convs, nil)

	mockWmRepo := new(MockWatermarkRepository)
	mockWmRepo.On("Load", context.Background(), wmKey).Return(since, nil)

	mockDirectory := new(MockDirectoryGateway)

	convUC := NewConversationUseCase(mockConvRepo, mockWmRepo, nil, nil)
	unreadUC := NewUnreadUseCase(mockWmRepo)
	return NewInboxUseCase(convUC, unreadUC, mockDirectory), mockDirectory
}

func TestInboxUseCase_Project_SortedByActivity(t *testing.T) {
	ctx := context.Background()
	viewer := vendorViewer()

	convs := []domain.Conversation{
		{VendorID: "v_zen", CustomerID: "c-a", CustomerName: "Ada", LastActivityAt: 100},
		{VendorID: "v_zen", CustomerID: "c-b", CustomerName: "Ben", LastActivityAt: 300},
		{VendorID: "v_zen", CustomerID: "c-c", CustomerName: "Cleo", LastActivityAt: 200},
	}

	uc, _ := newInboxFixture(t, convs, "PD_LAST_MSG_SEEN_PHARM_v_zen", 0)
	summaries, err := uc.Project(ctx, viewer)

	assert.NoError(t, err)
	assert.Len(t, summaries, 3)
	assert.Equal(t, "c-b", summaries[0].PartnerID)
	assert.Equal(t, "c-c", summaries[1].PartnerID)
	assert.Equal(t, "c-a", summaries[2].PartnerID)
}

func TestInboxUseCase_Project_VendorSeesCustomerNames(t *testing.T) {
	ctx := context.Background()
	viewer := vendorViewer()

	convs := []domain.Conversation{
		{VendorID: "v_zen", CustomerID: "abcd1234", CustomerName: "Ada", LastActivityAt: 200},
		{VendorID: "v_zen", CustomerID: "efgh5678", LastActivityAt: 100},
	}

	uc, _ := newInboxFixture(t, convs, "PD_LAST_MSG_SEEN_PHARM_v_zen", 0)
	summaries, err := uc.Project(ctx, viewer)

	assert.NoError(t, err)
	assert.Equal(t, "Ada", summaries[0].PartnerDisplayName)
	// nameless customers get the synthesized short-id label
	assert.Equal(t, "Customer U_EFGH", summaries[1].PartnerDisplayName)
}

func TestInboxUseCase_Project_CustomerSeesVendorNames(t *testing.T) {
	ctx := context.Background()
	viewer := customerViewer()

	convs := []domain.Conversation{
		{VendorID: "v_zen", CustomerID: "cust-1", LastActivityAt: 200},
		{VendorID: "v_gone", CustomerID: "cust-1", LastActivityAt: 100},
	}

	uc, mockDirectory := newInboxFixture(t, convs, "PD_LAST_MSG_SEEN_CUST_cust-1", 0)
	mockDirectory.On("GetVendorByID", ctx, "v_zen").Return(&directory.Vendor{ID: "v_zen", Name: "ZenCare Pharmacy"}, nil)
	mockDirectory.On("GetVendorByID", ctx, "v_gone").Return(nil, nil)

	summaries, err := uc.Project(ctx, viewer)

	assert.NoError(t, err)
	assert.Equal(t, "ZenCare Pharmacy", summaries[0].PartnerDisplayName)
	assert.True(t, summaries[0].IsKnownVendor)
	// a directory miss degrades to an unnamed counterpart, never an error
	assert.Equal(t, "Vendor U_V_GO", summaries[1].PartnerDisplayName)
	assert.False(t, summaries[1].IsKnownVendor)
}

func TestInboxUseCase_Project_PreviewAndUnread(t *testing.T) {
	ctx := context.Background()
	viewer := vendorViewer()

	convs := []domain.Conversation{
		{
			VendorID: "v_zen", CustomerID: "c-a", CustomerName: "Ada", LastActivityAt: 300,
			Messages: []domain.Message{
				{From: domain.SenderCustomer, Text: "Do you have paracetamol?", At: 300},
			},
		},
		{
			VendorID: "v_zen", CustomerID: "c-b", CustomerName: "Ben", LastActivityAt: 200,
			Messages: []domain.Message{
				{From: domain.SenderCustomer, At: 200, Attachments: []domain.Attachment{
					{Name: "rx.jpg", Kind: domain.AttachmentImage},
					{Name: "note.pdf", Kind: domain.AttachmentFile},
				}},
			},
		},
		{VendorID: "v_zen", CustomerID: "c-c", CustomerName: "Cleo", LastActivityAt: 100},
	}

	uc, _ := newInboxFixture(t, convs, "PD_LAST_MSG_SEEN_PHARM_v_zen", 250)
	summaries, err := uc.Project(ctx, viewer)

	assert.NoError(t, err)
	assert.Equal(t, "Do you have paracetamol?", summaries[0].LastPreviewText)
	assert.Equal(t, 1, summaries[0].Unread)
	assert.Equal(t, "2 attachment(s)", summaries[1].LastPreviewText)
	assert.Equal(t, 0, summaries[1].Unread)
	assert.Equal(t, "No messages yet", summaries[2].LastPreviewText)
}
