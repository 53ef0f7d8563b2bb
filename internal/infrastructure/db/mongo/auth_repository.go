package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jandrly/kancl/internal/core/domain"
)

const (
	collectionUsers    = "users"
	collectionSessions = "sessions"
)

// UserRepository stores users in the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Email          string             `bson:"email"`
	PasswordHash   string             `bson:"passwordHash"`
	EmailVerified  *bool              `bson:"emailVerified,omitempty"`
	FirstName      *string            `bson:"firstName,omitempty"`
	LastName       *string            `bson:"lastName,omitempty"`
	AvatarURL      *string            `bson:"avatarUrl,omitempty"`
	Phone          *string            `bson:"phone,omitempty"`
	Locale         *string            `bson:"locale,omitempty"`
	OrganizationID *string            `bson:"organizationId,omitempty"`
	Role           *string            `bson:"role,omitempty"`
	IsActive       *bool              `bson:"isActive,omitempty"`
	LastLoginAt    *time.Time         `bson:"lastLoginAt,omitempty"`
	CreatedAt      *time.Time         `bson:"createdAt,omitempty"`
}

func toMongoUser(u *domain.User) mongoUser {
	doc := mongoUser{
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		EmailVerified:  u.EmailVerified,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		AvatarURL:      u.AvatarURL,
		Phone:          u.Phone,
		Locale:         u.Locale,
		OrganizationID: u.OrganizationID,
		IsActive:       u.IsActive,
		LastLoginAt:    utcPtr(u.LastLoginAt),
		CreatedAt:      utcPtr(u.CreatedAt),
	}
	if u.Role != nil {
		r := string(*u.Role)
		doc.Role = &r
	}
	return doc
}

func (m mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:             m.ID.Hex(),
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		EmailVerified:  m.EmailVerified,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		AvatarURL:      m.AvatarURL,
		Phone:          m.Phone,
		Locale:         m.Locale,
		OrganizationID: m.OrganizationID,
		IsActive:       m.IsActive,
		LastLoginAt:    utcPtr(m.LastLoginAt),
		CreatedAt:      utcPtr(m.CreatedAt),
	}
	if m.Role != nil {
		r := domain.Role(*m.Role)
		u.Role = &r
	}
	return u
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

// FindByEmail matches the address exactly.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toMongoUser(user))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

// Update replaces the stored document, keeping its _id.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, toMongoUser(user))
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"lastLoginAt": at.UTC()}})
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SessionRepository stores sessions keyed by their opaque id.
type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{col: db.Collection(collectionSessions)}
}

type mongoSession struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"userId"`
	CreatedAt time.Time `bson:"createdAt"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

func (r *SessionRepository) Create(ctx context.Context, s *domain.Session) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, mongoSession{
		ID:        s.ID,
		UserID:    s.UserID,
		CreatedAt: s.CreatedAt.UTC(),
		ExpiresAt: s.ExpiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ms mongoSession
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &domain.Session{
		ID:        ms.ID,
		UserID:    ms.UserID,
		CreatedAt: ms.CreatedAt.UTC(),
		ExpiresAt: ms.ExpiresAt.UTC(),
	}, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"expiresAt": bson.M{"$lte": now.UTC()}})
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.DeletedCount, nil
}
