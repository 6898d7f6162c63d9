package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"pharmacy_delivery_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ParticipantSide which side of the pair key an id migration re-keys
type ParticipantSide string

const (
	// SideVendor migrate the vendor id of the pair
	SideVendor ParticipantSide = "vendor"
	// SideCustomer migrate the customer id of the pair
	SideCustomer ParticipantSide = "customer"
)

// ConversationRepository definition conversation store access. Creation and
// append are single conditional upserts keyed by the deterministic pair id,
// never scan-then-insert, so concurrent first-message sends cannot produce a
// second record for the same pair.
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, vendorID, customerID, customerNameHint string) (*domain.Conversation, error)
	AppendMessage(ctx context.Context, vendorID, customerID string, msg domain.Message, customerNameHint string) (*domain.Conversation, error)
	FindByPair(ctx context.Context, vendorID, customerID string) (*domain.Conversation, error)
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Conversation, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Conversation, error)
	// MigrateParticipant re-keys every conversation of one participant from a
	// prior identity scheme onto the canonical id. Merges into an existing
	// record for the new pair when both exist.
	MigrateParticipant(ctx context.Context, side ParticipantSide, oldID, newID string) error
}

type conversationRepository struct {
	coll *mongo.Collection
}

// NewMongoConversationRepository create a ConversationRepository
func NewMongoConversationRepository(db *mongo.Database) ConversationRepository {
	return &conversationRepository{
		coll: db.Collection("conversations"),
	}
}

func (r *conversationRepository) GetOrCreate(ctx context.Context, vendorID, customerID, customerNameHint string) (*domain.Conversation, error) {
	if vendorID == "" || customerID == "" {
		return nil, domain.ErrInvalidParticipant
	}

	key := domain.PairKey(vendorID, customerID)
	update := bson.M{
		"$setOnInsert": bson.M{
			"vendor_id":        vendorID,
			"customer_id":      customerID,
			"last_activity_at": time.Now().UnixMilli(),
			"messages":         []domain.Message{},
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conv domain.Conversation
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": key}, update, opts).Decode(&conv); err != nil {
		return nil, err
	}

	if conv.CustomerName == "" && customerNameHint != "" {
		if err := r.backfillCustomerName(ctx, key, customerNameHint); err != nil {
			return nil, err
		}
		conv.CustomerName = customerNameHint
	}

	return &conv, nil
}

func (r *conversationRepository) AppendMessage(ctx context.Context, vendorID, customerID string, msg domain.Message, customerNameHint string) (*domain.Conversation, error) {
	if vendorID == "" || customerID == "" {
		return nil, domain.ErrInvalidParticipant
	}

	key := domain.PairKey(vendorID, customerID)
	update := bson.M{
		"$setOnInsert": bson.M{
			"vendor_id":   vendorID,
			"customer_id": customerID,
		},
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"last_activity_at": msg.At},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var conv domain.Conversation
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": key}, update, opts).Decode(&conv); err != nil {
		return nil, err
	}

	if conv.CustomerName == "" && customerNameHint != "" {
		if err := r.backfillCustomerName(ctx, key, customerNameHint); err != nil {
			return nil, err
		}
		conv.CustomerName = customerNameHint
	}

	return &conv, nil
}

// backfillCustomerName fills the name the first time it becomes known. Never
// overwrites a stored name.
func (r *conversationRepository) backfillCustomerName(ctx context.Context, key, name string) error {
	filter := bson.M{
		"_id": key,
		"$or": []bson.M{
			{"customer_name": bson.M{"$exists": false}},
			{"customer_name": ""},
		},
	}
	_, err := r.coll.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"customer_name": name}})
	return err
}

func (r *conversationRepository) FindByPair(ctx context.Context, vendorID, customerID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.coll.FindOne(ctx, bson.M{"_id": domain.PairKey(vendorID, customerID)}).Decode(&conv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ListByVendor(ctx context.Context, vendorID string) ([]domain.Conversation, error) {
	return r.list(ctx, bson.M{"vendor_id": vendorID})
}

func (r *conversationRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Conversation, error) {
	return r.list(ctx, bson.M{"customer_id": customerID})
}

func (r *conversationRepository) list(ctx context.Context, filter bson.M) ([]domain.Conversation, error) {
	opts := options.Find().SetSort(bson.M{"last_activity_at": -1})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var convs []domain.Conversation
	if err := cur.All(ctx, &convs); err != nil {
		return nil, err
	}
	return convs, nil
}

func (r *conversationRepository) MigrateParticipant(ctx context.Context, side ParticipantSide, oldID, newID string) error {
	if oldID == "" || newID == "" || oldID == newID {
		return domain.ErrInvalidParticipant
	}

	field := "customer_id"
	if side == SideVendor {
		field = "vendor_id"
	}

	cur, err := r.coll.Find(ctx, bson.M{field: oldID})
	if err != nil {
		return err
	}
	var stale []domain.Conversation
	if err := cur.All(ctx, &stale); err != nil {
		return err
	}

	for _, old := range stale {
		if err := r.mergeUnderNewKey(ctx, side, old.ID, newID); err != nil {
			return err
		}
	}

	return nil
}

// mergeUnderNewKey folds one old-key document into the document of the new
// pair key. The merge is read-then-write, so the delete is conditioned on the
// exact message count that was read, a message appended to the old document
// mid-merge leaves it in place and the merge runs again. The union dedupes by
// message id, repeated passes never duplicate history.
func (r *conversationRepository) mergeUnderNewKey(ctx context.Context, side ParticipantSide, oldKey, newID string) error {
	for attempt := 0; attempt < 5; attempt++ {
		var old domain.Conversation
		if err := r.coll.FindOne(ctx, bson.M{"_id": oldKey}).Decode(&old); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil
			}
			return err
		}

		vendorID, customerID := old.VendorID, old.CustomerID
		if side == SideVendor {
			vendorID = newID
		} else {
			customerID = newID
		}

		merged, err := r.GetOrCreate(ctx, vendorID, customerID, old.CustomerName)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(merged.Messages))
		msgs := make([]domain.Message, 0, len(merged.Messages)+len(old.Messages))
		for _, m := range append(merged.Messages, old.Messages...) {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			msgs = append(msgs, m)
		}
		sort.SliceStable(msgs, func(i, j int) bool { return msgs[i].At < msgs[j].At })

		lastAt := merged.LastActivityAt
		if old.LastActivityAt > lastAt {
			lastAt = old.LastActivityAt
		}
		if _, err := r.coll.UpdateOne(ctx, bson.M{"_id": merged.ID}, bson.M{
			"$set": bson.M{"messages": msgs, "last_activity_at": lastAt},
		}); err != nil {
			return err
		}

		res, err := r.coll.DeleteOne(ctx, bson.M{
			"_id":      oldKey,
			"messages": bson.M{"$size": len(old.Messages)},
		})
		if err != nil {
			return err
		}
		if res.DeletedCount == 1 {
			return nil
		}
	}

	return errors.New("conversation merge did not settle")
}
