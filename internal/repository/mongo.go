package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"permission-engine/internal/config"
	"permission-engine/internal/repository/model"
	"permission-engine/internal/repository/registrytypes"
)

const (
	databaseName = "permission-engine"

	groupCollectionName = "groups"
	userCollectionName  = "users"
	nodeCollectionName  = "permission_nodes"
)

type mongoRepository struct {
	logger   *zap.SugaredLogger
	database *mongo.Database

	groupCollection *mongo.Collection
	userCollection  *mongo.Collection
	nodeCollection  *mongo.Collection
}

var _ Repository = (*mongoRepository)(nil)

func NewMongoRepository(ctx context.Context, logger *zap.SugaredLogger, wg *sync.WaitGroup, cfg config.MongoDBConfig) (Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetRegistry(createCodecRegistry()))
	if err != nil {
		return nil, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Errorw("failed to disconnect from mongo", "error", err)
		}
	}()

	database := client.Database(databaseName)
	return &mongoRepository{
		logger:          logger,
		database:        database,
		groupCollection: database.Collection(groupCollectionName),
		userCollection:  database.Collection(userCollectionName),
		nodeCollection:  database.Collection(nodeCollectionName),
	}, nil
}

func (m *mongoRepository) GetGroup(ctx context.Context, name string) (*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var group model.Group
	if err := m.groupCollection.FindOne(ctx, bson.M{"_id": name}).Decode(&group); err != nil {
		return nil, err
	}

	return &group, nil
}

func (m *mongoRepository) GetAllGroups(ctx context.Context) ([]*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := m.groupCollection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var mongoResult []model.Group
	err = cursor.All(ctx, &mongoResult)

	slice := make([]*model.Group, len(mongoResult))
	for i := range mongoResult {
		slice[i] = &mongoResult[i]
	}

	return slice, err
}

func (m *mongoRepository) GroupExists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := m.groupCollection.CountDocuments(ctx, bson.M{"_id": name})
	return count > 0, err
}

func (m *mongoRepository) CreateGroup(ctx context.Context, group *model.Group) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.groupCollection.InsertOne(ctx, group)
	return err
}

func (m *mongoRepository) SaveGroup(ctx context.Context, group *model.Group) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.groupCollection.ReplaceOne(ctx, bson.M{"_id": group.Name}, group, options.Replace().SetUpsert(true))
	return err
}

func (m *mongoRepository) DeleteGroup(ctx context.Context, name string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := m.groupCollection.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (m *mongoRepository) GetUser(ctx context.Context, userId uuid.UUID) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user model.User
	if err := m.userCollection.FindOne(ctx, bson.M{"_id": userId}).Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (m *mongoRepository) UserExists(ctx context.Context, userId uuid.UUID) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := m.userCollection.CountDocuments(ctx, bson.M{"_id": userId})
	return count > 0, err
}

func (m *mongoRepository) SaveUser(ctx context.Context, user *model.User) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.userCollection.ReplaceOne(ctx, bson.M{"_id": user.Id}, user, options.Replace().SetUpsert(true))
	return err
}

func (m *mongoRepository) DeleteUser(ctx context.Context, userId uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := m.userCollection.DeleteOne(ctx, bson.M{"_id": userId})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (m *mongoRepository) GetUsersInGroup(ctx context.Context, groupName string) ([]uuid.UUID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"$or": bson.A{
		bson.M{"permanentGroups": groupName},
		bson.M{"temporaryGroups." + groupName: bson.M{"$exists": true}},
	}}

	cursor, err := m.userCollection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}

	var mongoResult []struct {
		Id uuid.UUID `bson:"_id"`
	}
	if err := cursor.All(ctx, &mongoResult); err != nil {
		return nil, err
	}

	userIds := make([]uuid.UUID, len(mongoResult))
	for i, r := range mongoResult {
		userIds[i] = r.Id
	}

	return userIds, nil
}

func (m *mongoRepository) GetAllPermissionNodes(ctx context.Context) ([]*model.PermissionNode, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := m.nodeCollection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var mongoResult []model.PermissionNode
	err = cursor.All(ctx, &mongoResult)

	slice := make([]*model.PermissionNode, len(mongoResult))
	for i := range mongoResult {
		slice[i] = &mongoResult[i]
	}

	return slice, err
}

func (m *mongoRepository) SavePermissionNodes(ctx context.Context, extension string, nodes []*model.PermissionNode) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	writes := make([]mongo.WriteModel, len(nodes))
	for i, node := range nodes {
		node.Extension = extension
		writes[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": node.Node}).
			SetReplacement(node).
			SetUpsert(true)
	}

	if len(writes) == 0 {
		return nil
	}

	_, err := m.nodeCollection.BulkWrite(ctx, writes)
	return err
}

func (m *mongoRepository) RemoveExtensionNodes(ctx context.Context, extension string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.nodeCollection.DeleteMany(ctx, bson.M{"extension": extension})
	return err
}

func createCodecRegistry() *bsoncodec.Registry {
	return bson.NewRegistryBuilder().
		RegisterTypeEncoder(registrytypes.UUIDType, bsoncodec.ValueEncoderFunc(registrytypes.UuidEncodeValue)).
		RegisterTypeDecoder(registrytypes.UUIDType, bsoncodec.ValueDecoderFunc(registrytypes.UuidDecodeValue)).
		Build()
}
