package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/YeahitsDivyansh/mystry-message-api/internal/model"
)

// UserRepository defines the interface for user-related database operations.
// Messages are embedded in the user document, so message operations live here too.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string, verifiedOnly bool) (*model.User, error)
	UpdateUser(ctx context.Context, id string, params UpdateUserParams) (*model.User, error)
	SetAcceptingMessages(ctx context.Context, id string, accepting bool) (*model.User, error)
	AppendMessage(ctx context.Context, id string, message model.Message) error
	DeleteMessage(ctx context.Context, id string, messageID string) (int64, error)
	ListMessages(ctx context.Context, id string) ([]model.Message, error)
}

// UpdateUserParams defines the optional parameters for updating a user.
// Only the fields that are not nil will be updated.
type UpdateUserParams struct {
	PasswordHash              *string
	Verified                  *bool
	VerificationCode          *string
	VerificationCodeExpiresAt *time.Time
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	collection := db.Collection(userCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Messages == nil {
		user.Messages = []model.Message{}
	}

	result, err := r.db.Collection(userCollection).InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// GetUserByIdentifier matches a user by username or email, used for sign-in.
func (r *userMongoRepository) GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": identifier},
		bson.M{"email": identifier},
	}}

	return r.findOne(ctx, filter)
}

func (r *userMongoRepository) GetUserByUsername(
	ctx context.Context,
	username string,
	verifiedOnly bool,
) (*model.User, error) {
	filter := bson.M{"username": username}
	if verifiedOnly {
		filter["verified"] = true
	}

	return r.findOne(ctx, filter)
}

func (r *userMongoRepository) UpdateUser(
	ctx context.Context,
	id string,
	params UpdateUserParams,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	// Build update query
	updateMap := bson.M{}
	if params.PasswordHash != nil {
		updateMap["password_hash"] = *params.PasswordHash
	}
	if params.Verified != nil {
		updateMap["verified"] = *params.Verified
	}
	if params.VerificationCode != nil {
		updateMap["verification_code"] = *params.VerificationCode
	}
	if params.VerificationCodeExpiresAt != nil {
		updateMap["verification_code_expires_at"] = *params.VerificationCodeExpiresAt
	}

	if len(updateMap) == 0 {
		return nil, errors.New("no user fields to update")
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": updateMap},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// SetAcceptingMessages atomically overwrites the acceptance flag and returns
// the updated document.
func (r *userMongoRepository) SetAcceptingMessages(
	ctx context.Context,
	id string,
	accepting bool,
) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	result := r.db.Collection(userCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"accepting_messages": accepting,
			"updated_at":         time.Now(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}

// AppendMessage pushes a message onto the owner's embedded collection. The
// acceptance gate is enforced by the caller, not here.
func (r *userMongoRepository) AppendMessage(ctx context.Context, id string, message model.Message) error {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	result, err := r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{
			"$push": bson.M{"messages": message},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

// pullMessageUpdate removes a single embedded message. The $pull must stay
// the only operator in this update: ModifiedCount is how DeleteMessage tells
// an absent message id apart from a removed one, and any unconditional write
// alongside it would count every call as modified.
func pullMessageUpdate(messageID bson.ObjectID) bson.M {
	return bson.M{"$pull": bson.M{"messages": bson.M{"_id": messageID}}}
}

// DeleteMessage pulls one embedded message by id and reports how many were
// removed. Deleting an absent id is not an error at this layer. updated_at is
// touched in a second write, and only after a removal.
func (r *userMongoRepository) DeleteMessage(ctx context.Context, id string, messageID string) (int64, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return 0, err
	}

	messageObjectID, err := bson.ObjectIDFromHex(messageID)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Collection(userCollection).UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		pullMessageUpdate(messageObjectID),
	)
	if err != nil {
		return 0, err
	}

	if result.MatchedCount == 0 {
		return 0, mongo.ErrNoDocuments
	}

	if result.ModifiedCount > 0 {
		_, err = r.db.Collection(userCollection).UpdateOne(
			ctx,
			bson.M{"_id": objectID},
			bson.M{"$set": bson.M{"updated_at": time.Now()}},
		)
		if err != nil {
			return result.ModifiedCount, err
		}
	}

	return result.ModifiedCount, nil
}

// ListMessages returns the user's messages sorted by creation time descending.
// A user with no messages yields an empty slice; a missing user yields
// mongo.ErrNoDocuments.
func (r *userMongoRepository) ListMessages(ctx context.Context, id string) ([]model.Message, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": objectID}}},
		bson.D{{Key: "$unwind", Value: "$messages"}},
		bson.D{{Key: "$sort", Value: bson.M{"messages.created_at": -1}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      "$_id",
			"messages": bson.M{"$push": "$messages"},
		}}},
	}

	cursor, err := r.db.Collection(userCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Messages []model.Message `bson:"messages"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	if len(results) > 0 {
		return results[0].Messages, nil
	}

	// The $unwind drops users with an empty collection, so an empty result can
	// mean either "no messages" or "no such user". Disambiguate with a lookup.
	if _, err := r.findOne(ctx, bson.M{"_id": objectID}); err != nil {
		return nil, err
	}

	return []model.Message{}, nil
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	result := r.db.Collection(userCollection).FindOne(ctx, filter)
	if result.Err() != nil {
		return nil, result.Err()
	}

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, err
	}

	return &user, nil
}
