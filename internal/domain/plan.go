package domain

import (
	"time"

	"github.com/google/uuid"
)

// MapProvider selects which map widget the frontend renders a plan with.
type MapProvider string

const (
	MapOpenStreetMap MapProvider = "openstreetmap"
	MapBaidu         MapProvider = "baidu"
)

// Valid reports whether p is one of the known providers.
func (p MapProvider) Valid() bool {
	return p == MapOpenStreetMap || p == MapBaidu
}

// TravelPlan is the top-level aggregate; days, files, and shares belong to a plan.
// ShareToken, when non-nil, grants unauthenticated read-only access to the
// plan via the public route.
type TravelPlan struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	DefaultMap  MapProvider
	ShareToken  *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SharePermission is the access level granted by a PlanShare.
type SharePermission string

const (
	PermissionView SharePermission = "view"
	PermissionEdit SharePermission = "edit"
)

// Valid reports whether p is one of the known permissions.
func (p SharePermission) Valid() bool {
	return p == PermissionView || p == PermissionEdit
}

// PlanShare grants another user access to a plan.
// At most one share exists per (plan, user) pair.
type PlanShare struct {
	ID               uuid.UUID
	PlanID           uuid.UUID
	SharedWithUserID uuid.UUID
	SharedByUserID   uuid.UUID
	Permission       SharePermission
	CreatedAt        time.Time

	// SharedWith and SharedBy are populated by list queries that join users;
	// zero-valued elsewhere.
	SharedWith User
	SharedBy   User
}
