package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlanFile is the metadata row for a file attached to a plan.
// The file bytes themselves live in object storage under ObjectKey;
// only metadata is kept in Postgres.
type PlanFile struct {
	ID          uuid.UUID
	PlanID      uuid.UUID
	Filename    string // original name as uploaded
	ObjectKey   string // key in the storage bucket
	Size        int64
	ContentType string
	Description string
	UploadedAt  time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
