package entitlement

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStateStore implements StateStore over a MongoDB collection, using the
// merchant id as the document key.
type MongoStateStore struct {
	coll *mongo.Collection
}

var _ StateStore = (*MongoStateStore)(nil)

type merchantStateDoc struct {
	MerchantID     string     `bson:"_id"`
	ActivePlanID   string     `bson:"active_plan_id"`
	PreviousPlanID string     `bson:"previous_plan_id,omitempty"`
	DowngradedAt   *time.Time `bson:"downgraded_at,omitempty"`
	UpdatedAt      time.Time  `bson:"updated_at"`
}

// NewMongoStateStore creates a store over the given collection.
// Panics if coll is nil.
func NewMongoStateStore(coll *mongo.Collection) *MongoStateStore {
	if coll == nil {
		panic("entitlement: mongo collection is required")
	}
	return &MongoStateStore{coll: coll}
}

func (s *MongoStateStore) State(ctx context.Context, merchantID string) (MerchantState, error) {
	if merchantID == "" {
		return MerchantState{}, ErrInvalidMerchantID
	}

	var doc merchantStateDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": merchantID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return MerchantState{}, ErrMerchantNotFound
		}
		return MerchantState{}, err
	}

	return MerchantState{
		MerchantID:     doc.MerchantID,
		ActivePlanID:   doc.ActivePlanID,
		PreviousPlanID: doc.PreviousPlanID,
		DowngradedAt:   doc.DowngradedAt,
	}, nil
}

// Put upserts a merchant record. Exposed for the subscription lifecycle
// component; remember to invalidate the entitlement cache after calling it.
func (s *MongoStateStore) Put(ctx context.Context, state MerchantState) error {
	if err := state.Validate(); err != nil {
		return err
	}

	doc := merchantStateDoc{
		MerchantID:     state.MerchantID,
		ActivePlanID:   state.ActivePlanID,
		PreviousPlanID: state.PreviousPlanID,
		DowngradedAt:   state.DowngradedAt,
		UpdatedAt:      time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": state.MerchantID}, doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

// Delete removes a merchant record; deleting an absent record is a no-op.
func (s *MongoStateStore) Delete(ctx context.Context, merchantID string) error {
	if merchantID == "" {
		return ErrInvalidMerchantID
	}
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": merchantID})
	return err
}
