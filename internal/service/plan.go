package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"travenion/internal/domain"
	"travenion/internal/repo"
	"travenion/internal/storage"
)

// PlanService implements business logic for TravelPlan operations, including
// the visibility rules every child resource inherits: the owner sees and edits
// everything, a "view" share grants reads, an "edit" share grants writes, and
// plans invisible to the caller answer not-found rather than forbidden.
type PlanService struct {
	plans  repo.PlanRepo
	shares repo.ShareRepo
	users  repo.UserRepo
	files  repo.FileRepo
	store  storage.ObjectStore
}

// NewPlanService constructs a PlanService. The file repo and object store are
// needed because deleting a plan must also delete its stored file objects.
func NewPlanService(plans repo.PlanRepo, shares repo.ShareRepo, users repo.UserRepo, files repo.FileRepo, store storage.ObjectStore) *PlanService {
	return &PlanService{plans: plans, shares: shares, users: users, files: files, store: store}
}

// Authorize loads the plan and checks the caller's access to it.
// With write=false any owner or share suffices; with write=true the caller
// must be the owner or hold an "edit" share.
// Returns domain.ErrNotFound both for nonexistent plans and for plans the
// caller may not see, so unauthorized probing cannot enumerate plan IDs.
func (s *PlanService) Authorize(ctx context.Context, planID, userID uuid.UUID, write bool) (domain.TravelPlan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("service.PlanService.Authorize: %w", err)
	}
	if plan.OwnerID == userID {
		return plan, nil
	}

	share, err := s.shares.GetByPlanAndUser(ctx, planID, userID)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("service.PlanService.Authorize: %w", err)
	}
	if write && share.Permission != domain.PermissionEdit {
		return domain.TravelPlan{}, fmt.Errorf("service.PlanService.Authorize: %w", domain.ErrNotFound)
	}
	return plan, nil
}

// Create validates and persists a new plan owned by ownerID.
func (s *PlanService) Create(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error) {
	if err := validatePlan(plan); err != nil {
		return domain.TravelPlan{}, err
	}
	if plan.DefaultMap == "" {
		plan.DefaultMap = domain.MapOpenStreetMap
	}

	created, err := s.plans.Create(ctx, plan)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("service.PlanService.Create: %w", err)
	}
	return created, nil
}

// Get returns a plan visible to userID.
func (s *PlanService) Get(ctx context.Context, planID, userID uuid.UUID) (domain.TravelPlan, error) {
	return s.Authorize(ctx, planID, userID, false)
}

// List returns one page of the caller's own plans plus the total count.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PlanService) List(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.TravelPlan, int64, error) {
	plans, total, err := s.plans.ListByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.PlanService.List: %w", err)
	}
	if plans == nil {
		plans = []domain.TravelPlan{}
	}
	return plans, total, nil
}

// ListSharedWithMe returns all plans other users shared with the caller.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PlanService) ListSharedWithMe(ctx context.Context, userID uuid.UUID) ([]domain.TravelPlan, error) {
	plans, err := s.plans.ListSharedWith(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.PlanService.ListSharedWithMe: %w", err)
	}
	if plans == nil {
		return []domain.TravelPlan{}, nil
	}
	return plans, nil
}

// Update validates and persists changes to title, description, and default map.
// Requires owner or edit-share access.
func (s *PlanService) Update(ctx context.Context, plan domain.TravelPlan, userID uuid.UUID) (domain.TravelPlan, error) {
	if _, err := s.Authorize(ctx, plan.ID, userID, true); err != nil {
		return domain.TravelPlan{}, err
	}
	if err := validatePlan(plan); err != nil {
		return domain.TravelPlan{}, err
	}

	updated, err := s.plans.Update(ctx, plan)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("service.PlanService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a plan and everything under it. Only the owner may delete.
// Stored file objects are removed best effort: a failed object delete is
// logged and skipped, since the metadata rows go away with the plan anyway.
func (s *PlanService) Delete(ctx context.Context, planID, userID uuid.UUID) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	if plan.OwnerID != userID {
		return fmt.Errorf("service.PlanService.Delete: %w", domain.ErrNotFound)
	}

	files, err := s.files.ListByPlanID(ctx, planID)
	if err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	for _, f := range files {
		if err := s.store.Delete(ctx, f.ObjectKey); err != nil {
			slog.WarnContext(ctx, "orphaned file object", "key", f.ObjectKey, "error", err)
		}
	}

	if err := s.plans.Delete(ctx, planID); err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	return nil
}

// Publish mints (or keeps) the plan's public read-only token. Owner only.
func (s *PlanService) Publish(ctx context.Context, planID, userID uuid.UUID) (domain.TravelPlan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("service.PlanService.Publish: %w", err)
	}
	if plan.OwnerID != userID {
		return domain.TravelPlan{}, fmt.Errorf("service.PlanService.Publish: %w", domain.ErrNotFound)
	}
	if plan.ShareToken != nil {
		return plan, nil
	}

	tok := uuid.New()
	updated, err := s.plans.SetShareToken(ctx, planID, &tok)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("service.PlanService.Publish: %w", err)
	}
	return updated, nil
}

// Unpublish revokes the plan's public token. Owner only.
func (s *PlanService) Unpublish(ctx context.Context, planID, userID uuid.UUID) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("service.PlanService.Unpublish: %w", err)
	}
	if plan.OwnerID != userID {
		return fmt.Errorf("service.PlanService.Unpublish: %w", domain.ErrNotFound)
	}

	if _, err := s.plans.SetShareToken(ctx, planID, nil); err != nil {
		return fmt.Errorf("service.PlanService.Unpublish: %w", err)
	}
	return nil
}

// GetPublic returns the plan published under the given token.
func (s *PlanService) GetPublic(ctx context.Context, tok uuid.UUID) (domain.TravelPlan, error) {
	plan, err := s.plans.GetByShareToken(ctx, tok)
	if err != nil {
		return domain.TravelPlan{}, fmt.Errorf("service.PlanService.GetPublic: %w", err)
	}
	return plan, nil
}

// ListShares returns a plan's shares with user details. Owner only.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PlanService) ListShares(ctx context.Context, planID, userID uuid.UUID) ([]domain.PlanShare, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("service.PlanService.ListShares: %w", err)
	}
	if plan.OwnerID != userID {
		return nil, fmt.Errorf("service.PlanService.ListShares: %w", domain.ErrNotFound)
	}

	shares, err := s.shares.ListByPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("service.PlanService.ListShares: %w", err)
	}
	if shares == nil {
		return []domain.PlanShare{}, nil
	}
	return shares, nil
}

// Share grants username access to the plan. Owner only.
// Returns domain.ErrValidation for an unknown permission or a self-share,
// domain.ErrNotFound for an unknown target user, and domain.ErrConflict when
// the plan is already shared with that user.
func (s *PlanService) Share(ctx context.Context, planID, ownerID uuid.UUID, username string, permission domain.SharePermission) (domain.PlanShare, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return domain.PlanShare{}, fmt.Errorf("service.PlanService.Share: %w", err)
	}
	if plan.OwnerID != ownerID {
		return domain.PlanShare{}, fmt.Errorf("service.PlanService.Share: %w", domain.ErrNotFound)
	}

	if permission == "" {
		permission = domain.PermissionView
	}
	if !permission.Valid() {
		return domain.PlanShare{}, fmt.Errorf("%w: unknown permission %q", domain.ErrValidation, permission)
	}

	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return domain.PlanShare{}, fmt.Errorf("service.PlanService.Share: target user: %w", err)
	}
	if target.ID == ownerID {
		return domain.PlanShare{}, fmt.Errorf("%w: cannot share a plan with its owner", domain.ErrValidation)
	}

	share, err := s.shares.Create(ctx, domain.PlanShare{
		PlanID:           planID,
		SharedWithUserID: target.ID,
		SharedByUserID:   ownerID,
		Permission:       permission,
	})
	if err != nil {
		return domain.PlanShare{}, fmt.Errorf("service.PlanService.Share: %w", err)
	}
	return share, nil
}

// Unshare revokes username's access to the plan. Owner only.
func (s *PlanService) Unshare(ctx context.Context, planID, ownerID uuid.UUID, username string) error {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return fmt.Errorf("service.PlanService.Unshare: %w", err)
	}
	if plan.OwnerID != ownerID {
		return fmt.Errorf("service.PlanService.Unshare: %w", domain.ErrNotFound)
	}

	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("service.PlanService.Unshare: target user: %w", err)
	}

	if err := s.shares.Delete(ctx, planID, target.ID); err != nil {
		return fmt.Errorf("service.PlanService.Unshare: %w", err)
	}
	return nil
}

// validatePlan enforces business rules common to Create and Update.
func validatePlan(plan domain.TravelPlan) error {
	if strings.TrimSpace(plan.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if plan.DefaultMap != "" && !plan.DefaultMap.Valid() {
		return fmt.Errorf("%w: unknown map provider %q", domain.ErrValidation, plan.DefaultMap)
	}
	return nil
}
