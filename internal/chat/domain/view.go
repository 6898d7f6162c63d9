package domain

// ViewerTag message direction relative to the viewer
type ViewerTag string

const (
	// TagMine written by the viewer's own side
	TagMine ViewerTag = "mine"
	// TagTheirs written by the counterpart
	TagTheirs ViewerTag = "theirs"
)

// ViewMessage message translated for rendering. The original role tag is
// kept next to the viewer-relative one.
type ViewMessage struct {
	ID          string       `json:"id"`
	From        ViewerTag    `json:"from"`
	Role        SenderRole   `json:"role"`
	Text        string       `json:"text"`
	At          int64        `json:"at"`
	Attachments []Attachment `json:"attachments,omitempty"`
	ReplyTo     *ReplyRef    `json:"reply_to,omitempty"`
}

// ThreadSummary projected inbox row for one counterparty
type ThreadSummary struct {
	PartnerID          string `json:"partner_id"`
	PartnerDisplayName string `json:"partner_display_name"`
	IsKnownVendor      bool   `json:"is_known_vendor"`
	LastActivityAt     int64  `json:"last_activity_at"`
	LastPreviewText    string `json:"last_preview_text"`
	Unread             int    `json:"unread"`
}

// MessageSentEvent audit record published after a successful append
type MessageSentEvent struct {
	ConversationID string     `json:"conversation_id"`
	MessageID      string     `json:"message_id"`
	VendorID       string     `json:"vendor_id"`
	CustomerID     string     `json:"customer_id"`
	From           SenderRole `json:"from"`
	At             int64      `json:"at"`
	HasAttachments bool       `json:"has_attachments"`
}

// Action websocket request action
type Action string

const (
	// SendMessage websocket action send_message
	SendMessage Action = "send_message"
	// GetInbox websocket action get_inbox
	GetInbox Action = "get_inbox"
	// GetThread websocket action get_thread
	GetThread Action = "get_thread"
	// MarkSeen websocket action mark_seen
	MarkSeen Action = "mark_seen"
	// NotifyMessage websocket action notify_message
	NotifyMessage Action = "notify_message"
)

// WSRequest websocket Request
type WSRequest struct {
	Action    string       `json:"action"`
	PartnerID string       `json:"partner_id"`
	Text      string       `json:"text"`
	Atts      []Attachment `json:"attachments,omitempty"`
	ReplyTo   *ReplyRef    `json:"reply_to,omitempty"`
}

// WSResponse websocket Response
type WSResponse struct {
	Action  string                 `json:"action"`
	Success bool                   `json:"success"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Error   string                 `json:"error,omitempty"`
}
