package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rwandabill/identity-service/internal/core/domain"
)

const (
	identityCollection = "identities"
	counterCollection  = "counters"
)

// MongoIdentityRepository persists all identity variants in one collection.
// The unique index on email (see EnsureIndexes) makes the cross-variant
// uniqueness check and the insert a single atomic operation: concurrent
// signups with the same email race on the index, and exactly one wins.
type MongoIdentityRepository struct {
	coll     *mongo.Collection
	counters *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *MongoIdentityRepository {
	return &MongoIdentityRepository{
		coll:     db.Collection(identityCollection),
		counters: db.Collection(counterCollection),
	}
}

type mongoIdentity struct {
	ID           int64  `bson:"_id"`
	Email        string `bson:"email"`
	FullName     string `bson:"full_name"`
	Telephone    string `bson:"telephone,omitempty"`
	District     string `bson:"district,omitempty"`
	Sector       string `bson:"sector,omitempty"`
	PasswordHash string `bson:"password_hash"`
	Role         string `bson:"role"`
	ServiceType  string `bson:"service_type,omitempty"`
	Active       bool   `bson:"active"`
	Approved     bool   `bson:"approved"`
	ApprovedAt   int64  `bson:"approved_at,omitempty"`
	ApprovedBy   string `bson:"approved_by,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

// nextID atomically increments and returns the identity sequence counter.
func (r *MongoIdentityRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}

	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": identityCollection},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next identity id: %w", err)
	}
	return counter.Seq, nil
}

func (r *MongoIdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := mongoIdentity{
		ID:           id,
		Email:        identity.Email,
		FullName:     identity.FullName,
		Telephone:    identity.Telephone,
		District:     identity.District,
		Sector:       identity.Sector,
		PasswordHash: identity.PasswordHash,
		Role:         identity.Role,
		ServiceType:  identity.ServiceType,
		Active:       identity.Active,
		Approved:     identity.Approved,
		ApprovedBy:   identity.ApprovedBy,
		CreatedAt:    identity.CreatedAt.Unix(),
		UpdatedAt:    identity.UpdatedAt.Unix(),
	}
	if identity.ApprovedAt != nil {
		doc.ApprovedAt = identity.ApprovedAt.Unix()
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *MongoIdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var doc mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find identity by email: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoIdentityRepository) FindByID(ctx context.Context, id int64) (*domain.Identity, error) {
	var doc mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find identity by id: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoIdentityRepository) List(ctx context.Context) ([]*domain.Identity, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoIdentityRepository) ListByRoles(ctx context.Context, roles ...string) ([]*domain.Identity, error) {
	return r.find(ctx, bson.M{"role": bson.M{"$in": roles}})
}

func (r *MongoIdentityRepository) find(ctx context.Context, filter bson.M) ([]*domain.Identity, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Identity
	for cur.Next(ctx) {
		var doc mongoIdentity
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode identity: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	return out, nil
}

func (r *MongoIdentityRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"role": role})
	if err != nil {
		return 0, fmt.Errorf("count by role: %w", err)
	}
	return n, nil
}

// Approve flips an unapproved identity to approved+active in one atomic
// update. The approved=false filter guarantees the audit fields are stamped
// at most once, even under concurrent approvals.
func (r *MongoIdentityRepository) Approve(ctx context.Context, id int64, approvedBy string, at time.Time) (*domain.Identity, error) {
	var doc mongoIdentity
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "approved": false},
		bson.M{"$set": bson.M{
			"active":      true,
			"approved":    true,
			"approved_at": at.Unix(),
			"approved_by": approvedBy,
			"updated_at":  at.Unix(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("approve identity: %w", err)
	}

	// No unapproved match: distinguish "already approved" from "missing".
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrAlreadyApproved
}

func (m *mongoIdentity) toDomain() *domain.Identity {
	identity := &domain.Identity{
		ID:           m.ID,
		Email:        m.Email,
		FullName:     m.FullName,
		Telephone:    m.Telephone,
		District:     m.District,
		Sector:       m.Sector,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		ServiceType:  m.ServiceType,
		Active:       m.Active,
		Approved:     m.Approved,
		ApprovedBy:   m.ApprovedBy,
		CreatedAt:    unixToTime(m.CreatedAt),
		UpdatedAt:    unixToTime(m.UpdatedAt),
	}
	if m.ApprovedAt != 0 {
		t := unixToTime(m.ApprovedAt)
		identity.ApprovedAt = &t
	}
	return identity
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
