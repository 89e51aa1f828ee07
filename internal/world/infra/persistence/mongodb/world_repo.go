package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/SoftbearStudios/kiomet/internal/world/snapshot"
)

const defaultCollectionName = "world"

// WorldRepository stores one world snapshot document per server id.
type WorldRepository struct {
	coll *mongo.Collection
}

func NewWorldRepository(db *mongo.Database) *WorldRepository {
	return &WorldRepository{
		coll: db.Collection(defaultCollectionName),
	}
}

func (r *WorldRepository) Load(ctx context.Context, serverId int) (*snapshot.World, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb world collection is nil")
	}

	var snap snapshot.World
	err := r.coll.FindOne(ctx, bson.M{"_id": serverId}).Decode(&snap)
	if err == nil {
		return &snap, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Fresh server, fresh world.
		return nil, nil
	}
	return nil, err
}

func (r *WorldRepository) Save(ctx context.Context, snap *snapshot.World) error {
	if snap == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb world collection is nil")
	}

	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": snap.ServerId},
		snap,
		options.Replace().SetUpsert(true),
	)
	return err
}
