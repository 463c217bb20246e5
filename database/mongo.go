package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"masterboxer.com/project-social-backend/models"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// MongoStore keeps users and posts as documents keyed by ObjectID.
type MongoStore struct {
	client *mongo.Client
	users  *mongo.Collection
	posts  *mongo.Collection
}

// ConnectMongo connects, pings the primary and returns a store on database name.
func ConnectMongo(ctx context.Context, uri, name string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(name)
	return &MongoStore{
		client: client,
		users:  db.Collection(usersCollection),
		posts:  db.Collection(postsCollection),
	}, nil
}

// EnsureIndexes creates the unique email index and the post author index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	_, err = s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create posts userId index: %w", err)
	}
	log.Debug("mongo indexes ready")
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type userDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	models.User `bson:",inline"`
}

func (d *userDocument) model() *models.User {
	u := d.User
	u.ID = d.ID.Hex()
	u.Normalize()
	return &u
}

type postDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	models.Post `bson:",inline"`
}

func (d *postDocument) model() *models.Post {
	p := d.Post
	p.ID = d.ID.Hex()
	p.Normalize()
	return &p
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("cast to ObjectId failed for value %q: %w", id, err)
	}
	return oid, nil
}

func (s *MongoStore) CreateUser(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	u.Normalize()

	doc := userDocument{ID: primitive.NewObjectID(), User: *u}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
		}
		return err
	}
	u.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findUser(ctx, bson.M{"_id": oid})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var doc userDocument
	err := s.users.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (s *MongoStore) UpdateFriends(ctx context.Context, id string, friends []string) error {
	return s.updateFriends(ctx, id, friends)
}

// UpdateFriendPair writes both friend lists in one multi-document transaction.
// It needs a replica set deployment.
func (s *MongoStore) UpdateFriendPair(ctx context.Context, a, b *models.User) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := s.updateFriends(sc, a.ID, a.Friends); err != nil {
			return nil, err
		}
		return nil, s.updateFriends(sc, b.ID, b.Friends)
	})
	return err
}

func (s *MongoStore) updateFriends(ctx context.Context, id string, friends []string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	if friends == nil {
		friends = []string{}
	}
	res, err := s.users.UpdateByID(ctx, oid, bson.M{
		"$set": bson.M{"friends": friends, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreatePost(ctx context.Context, p *models.Post) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Normalize()

	doc := postDocument{ID: primitive.NewObjectID(), Post: *p}
	if _, err := s.posts.InsertOne(ctx, doc); err != nil {
		return err
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (s *MongoStore) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc postDocument
	err = s.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}

func (s *MongoStore) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.findPosts(ctx, bson.M{})
}

func (s *MongoStore) ListPostsByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return s.findPosts(ctx, bson.M{"userId": userID})
}

func (s *MongoStore) findPosts(ctx context.Context, filter bson.M) ([]models.Post, error) {
	cur, err := s.posts.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	posts := []models.Post{}
	for cur.Next(ctx) {
		var doc postDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		posts = append(posts, *doc.model())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *MongoStore) UpdateLikes(ctx context.Context, id string, likes models.Likes) (*models.Post, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	if likes == nil {
		likes = models.Likes{}
	}

	var doc postDocument
	err = s.posts.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"likes": likes, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.model(), nil
}
