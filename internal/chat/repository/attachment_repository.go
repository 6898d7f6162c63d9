package repository

import (
	"context"
	"fmt"
	"io"

	"pharmacy_delivery_service/internal/chat/domain"
	"pharmacy_delivery_service/pkg/database"

	"github.com/google/uuid"
)

// AttachmentRepository blob storage behind message attachments
type AttachmentRepository interface {
	// Store uploads the blob and returns the attachment record carrying its
	// locator url. Kind is derived from the mime type.
	Store(ctx context.Context, name, mimeType string, sizeBytes int64, reader io.Reader) (domain.Attachment, error)
}

type minioAttachmentRepository struct {
	mc *database.MinIOClient
}

// NewMinIOAttachmentRepository create an AttachmentRepository on minio
func NewMinIOAttachmentRepository(mc *database.MinIOClient) AttachmentRepository {
	return &minioAttachmentRepository{mc: mc}
}

func (r *minioAttachmentRepository) Store(ctx context.Context, name, mimeType string, sizeBytes int64, reader io.Reader) (domain.Attachment, error) {
	objectName := fmt.Sprintf("attachments/%s_%s", uuid.New().String(), name)
	if err := r.mc.PutObject(ctx, objectName, mimeType, sizeBytes, reader); err != nil {
		return domain.Attachment{}, err
	}

	return domain.Attachment{
		Name:       name,
		MimeType:   mimeType,
		SizeBytes:  sizeBytes,
		LocatorURL: r.mc.ObjectURL(objectName),
		Kind:       domain.KindForMime(mimeType),
	}, nil
}
