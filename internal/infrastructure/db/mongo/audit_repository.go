package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campushq/student-system/internal/core/domain"
)

const auditCollection = "audit_events"

// AuditRepository appends audit events. Records are write-only from the
// application's point of view; there is no read path in the API.
type AuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

type auditDoc struct {
	Actor   string    `bson:"actor"`
	Action  string    `bson:"action"`
	Subject string    `bson:"subject,omitempty"`
	Detail  string    `bson:"detail,omitempty"`
	At      time.Time `bson:"at"`
}

func (r *AuditRepository) Insert(ctx context.Context, event domain.AuditEvent) error {
	doc := auditDoc{
		Actor:   event.Actor,
		Action:  event.Action,
		Subject: event.Subject,
		Detail:  event.Detail,
		At:      event.At,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
