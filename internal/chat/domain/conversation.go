package domain

import (
	"errors"
	"strings"
)

// SenderRole author role recorded on a stored message
type SenderRole string

const (
	// SenderCustomer message written by the customer side
	SenderCustomer SenderRole = "customer"
	// SenderVendor message written by the vendor side
	SenderVendor SenderRole = "vendor"
)

// AttachmentKind derived from the mime type at composition time
type AttachmentKind string

const (
	// AttachmentImage image/* mime types
	AttachmentImage AttachmentKind = "image"
	// AttachmentFile everything else
	AttachmentFile AttachmentKind = "file"
)

var (
	// ErrEmptyMessage both text and attachments are empty
	ErrEmptyMessage = errors.New("message must have text or at least one attachment")
	// ErrInvalidParticipant vendor or customer id is missing
	ErrInvalidParticipant = errors.New("conversation requires both vendor and customer ids")
	// ErrNotSignedIn caller identity could not be resolved
	ErrNotSignedIn = errors.New("no signed-in identity")
)

// Attachment file reference carried on a message
type Attachment struct {
	Name       string         `bson:"name" json:"name"`
	MimeType   string         `bson:"mime_type" json:"mime_type"`
	SizeBytes  int64          `bson:"size_bytes" json:"size_bytes"`
	LocatorURL string         `bson:"locator_url" json:"locator_url"`
	Kind       AttachmentKind `bson:"kind" json:"kind"`
}

// KindForMime image/* maps to image, everything else is a plain file
func KindForMime(mimeType string) AttachmentKind {
	if strings.HasPrefix(mimeType, "image/") {
		return AttachmentImage
	}
	return AttachmentFile
}

// ReplyRef value snapshot of the quoted message. Not a live link, the quote
// stays displayable even if the original becomes inaccessible.
type ReplyRef struct {
	ID   string     `bson:"id" json:"id"`
	Text string     `bson:"text" json:"text"`
	From SenderRole `bson:"from" json:"from"`
	At   int64      `bson:"at" json:"at"`
}

// Message one immutable entry of a conversation log. At is a send-time
// timestamp in unix milliseconds, assigned once.
type Message struct {
	ID          string       `bson:"id" json:"id"`
	From        SenderRole   `bson:"from" json:"from"`
	Text        string       `bson:"text" json:"text"`
	At          int64        `bson:"at" json:"at"`
	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	ReplyTo     *ReplyRef    `bson:"reply_to,omitempty" json:"reply_to,omitempty"`
}

// Snapshot build the reply reference quoting this message
func (m Message) Snapshot() ReplyRef {
	return ReplyRef{ID: m.ID, Text: m.Text, From: m.From, At: m.At}
}

// MessageEnvelope validated outgoing draft handed to the conversation store
type MessageEnvelope struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
	ReplyTo     *ReplyRef    `json:"reply_to,omitempty"`
}

// Conversation message thread for one (vendor, customer) pair. At most one
// record exists per pair; the document id is the deterministic pair key.
type Conversation struct {
	ID             string    `bson:"_id" json:"id"`
	VendorID       string    `bson:"vendor_id" json:"vendor_id"`
	CustomerID     string    `bson:"customer_id" json:"customer_id"`
	CustomerName   string    `bson:"customer_name,omitempty" json:"customer_name,omitempty"`
	LastActivityAt int64     `bson:"last_activity_at" json:"last_activity_at"`
	Messages       []Message `bson:"messages" json:"messages"`
}

// PairKey deterministic composite document id, keeps get-or-create idempotent
func PairKey(vendorID, customerID string) string {
	return vendorID + "_" + customerID
}

// LastMessage newest entry of the log, nil when empty
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}
