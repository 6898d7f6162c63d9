package app

import (
	"errors"
	"fmt"

	"pharmacy_delivery_service/internal/chat/domain"
	"pharmacy_delivery_service/internal/chat/repository"
	identity "pharmacy_delivery_service/internal/identity/domain"
	"pharmacy_delivery_service/pkg/logger"
	"pharmacy_delivery_service/pkg/middlewares"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ChatHandler handles messaging HTTP requests
type ChatHandler struct {
	convUC      *ConversationUseCase
	inboxUC     *InboxUseCase
	unreadUC    *UnreadUseCase
	resolver    IdentityResolver
	attachments repository.AttachmentRepository
}

// NewChatHandler create ChatHandler
func NewChatHandler(
	convUC *ConversationUseCase,
	inboxUC *InboxUseCase,
	unreadUC *UnreadUseCase,
	resolver IdentityResolver,
	attachments repository.AttachmentRepository,
) *ChatHandler {
	return &ChatHandler{
		convUC:      convUC,
		inboxUC:     inboxUC,
		unreadUC:    unreadUC,
		resolver:    resolver,
		attachments: attachments,
	}
}

func (h *ChatHandler) viewer(c *fiber.Ctx) (identity.Identity, error) {
	accountID, ok := c.Locals(middlewares.TokenAccountID).(string)
	if !ok {
		return identity.Identity{}, fmt.Errorf("c.Locals(%s) is nil", middlewares.TokenAccountID)
	}
	return h.resolver.Resolve(c.Context(), accountID)
}

// StartChat open (or reuse) the thread with a vendor
// @Summary Start a chat with a vendor
// @Description Opens the single conversation between the signed-in customer and the vendor, optionally sending a first message
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body object true "vendor_id and optional text"
// @Success 200 {object} string "conversation"
// @Failure 400 {object} string "bad request"
// @Failure 401 {object} string "not signed in"
// @Router /chat/start [post]
func (h *ChatHandler) StartChat(c *fiber.Ctx) error {
	type request struct {
		VendorID string `json:"vendor_id"`
		Text     string `json:"text"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.VendorID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vendor_id is required"})
	}

	viewer, err := h.viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	conv, err := h.convUC.StartChat(c.Context(), viewer, req.VendorID, req.Text)
	if err != nil {
		return h.errStatus(c, err)
	}

	logger.Log.Info("start chat", zap.String("viewer", viewer.ID), zap.String("vendor", req.VendorID))
	return c.JSON(fiber.Map{
		"conversation_id":  conv.ID,
		"vendor_id":        conv.VendorID,
		"customer_id":      conv.CustomerID,
		"last_activity_at": conv.LastActivityAt,
	})
}

// SendMessage append a message to the thread with a partner
// @Summary Send a message
// @Description Appends a text and/or attachment message to the conversation with the partner
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body object true "partner_id, text, attachments, reply_to"
// @Success 200 {object} string "sent message"
// @Failure 400 {object} string "bad request"
// @Failure 401 {object} string "not signed in"
// @Router /chat/messages [post]
func (h *ChatHandler) SendMessage(c *fiber.Ctx) error {
	type request struct {
		PartnerID   string              `json:"partner_id"`
		Text        string              `json:"text"`
		Attachments []domain.Attachment `json:"attachments"`
		ReplyTo     *domain.ReplyRef    `json:"reply_to"`
	}

	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.PartnerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "partner_id is required"})
	}

	viewer, err := h.viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	envelope, err := Compose(req.Text, req.Attachments, req.ReplyTo)
	if err != nil {
		return h.errStatus(c, err)
	}

	msg, err := h.convUC.SendMessage(c.Context(), viewer, req.PartnerID, envelope)
	if err != nil {
		return h.errStatus(c, err)
	}

	return c.JSON(fiber.Map{"message_id": msg.ID, "at": msg.At})
}

// GetInbox list thread summaries of the viewer
// @Summary Get the inbox
// @Description One summary per counterparty with partner name, preview, unread count, most recent first
// @Tags Chat
// @Produce json
// @Success 200 {object} string "thread summaries"
// @Failure 401 {object} string "not signed in"
// @Router /chat/inbox [get]
func (h *ChatHandler) GetInbox(c *fiber.Ctx) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	summaries, err := h.inboxUC.Project(c.Context(), viewer)
	if err != nil {
		return h.errStatus(c, err)
	}
	return c.JSON(fiber.Map{"threads": summaries})
}

// MarkSeen move the viewer's watermark to now
// @Summary Mark the inbox seen
// @Description Moves the viewer's seen watermark to the current time, unread counts drop to zero
// @Tags Chat
// @Produce json
// @Success 200 {object} string "seen_at"
// @Failure 401 {object} string "not signed in"
// @Router /chat/inbox/seen [post]
func (h *ChatHandler) MarkSeen(c *fiber.Ctx) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	at, err := h.unreadUC.MarkSeenNow(c.Context(), viewer)
	if err != nil {
		return h.errStatus(c, err)
	}
	return c.JSON(fiber.Map{"seen_at": at})
}

// GetThread viewer-relative log of one counterparty
// @Summary Get a thread
// @Description Messages of the conversation with the partner, tagged mine/theirs for the viewer
// @Tags Chat
// @Produce json
// @Param partner_id path string true "partner id"
// @Success 200 {object} string "messages"
// @Failure 401 {object} string "not signed in"
// @Router /chat/thread/{partner_id} [get]
func (h *ChatHandler) GetThread(c *fiber.Ctx) error {
	partnerID := c.Params("partner_id")
	if partnerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "partner_id is required"})
	}

	viewer, err := h.viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	msgs, err := h.convUC.Thread(c.Context(), viewer, partnerID)
	if err != nil {
		return h.errStatus(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

// GetUnreadTotal unread count across every conversation of the viewer
// @Summary Get the total unread count
// @Description Sum of counterpart-authored messages newer than the viewer's watermark
// @Tags Chat
// @Produce json
// @Success 200 {object} string "unread"
// @Failure 401 {object} string "not signed in"
// @Router /chat/unread [get]
func (h *ChatHandler) GetUnreadTotal(c *fiber.Ctx) error {
	viewer, err := h.viewer(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	convs, err := h.convUC.ConversationsFor(c.Context(), viewer)
	if err != nil {
		return h.errStatus(c, err)
	}
	total, err := h.unreadUC.UnreadTotal(c.Context(), viewer, convs)
	if err != nil {
		return h.errStatus(c, err)
	}
	return c.JSON(fiber.Map{"unread": total})
}

// UploadAttachment store a blob and return the attachment record
// @Summary Upload an attachment
// @Description Stores the file and returns the attachment descriptor to embed in a message
// @Tags Chat
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "attachment file"
// @Success 200 {object} string "attachment"
// @Failure 400 {object} string "bad request"
// @Failure 500 {object} string "storage error"
// @Router /chat/attachments [post]
func (h *ChatHandler) UploadAttachment(c *fiber.Ctx) error {
	if _, err := h.viewer(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "open upload failed"})
	}
	defer f.Close()

	att, err := h.attachments.Store(
		c.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get(fiber.HeaderContentType),
		fileHeader.Size,
		f,
	)
	if err != nil {
		logger.Log.Errorf("store attachment :", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "store attachment failed"})
	}

	return c.JSON(att)
}

func (h *ChatHandler) errStatus(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEmptyMessage), errors.Is(err, domain.ErrInvalidParticipant):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotSignedIn):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
