// Package handler implements the HTTP layer of the Travenion API.
// Handlers are methods on Server, split into resource-specific files
// (auth.go, plan.go, day.go, ...) that all share the same struct. Handlers
// decode and validate the wire format, call a servicer, and render JSON;
// business rules live in the service layer.
package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"travenion/internal/domain"
	"travenion/internal/middleware"
	"travenion/internal/token"
)

// AuthServicer defines the account operations the auth handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type AuthServicer interface {
	Register(ctx context.Context, username, email, password string) (domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	GetUser(ctx context.Context, id uuid.UUID) (domain.User, error)
	UpdateProfile(ctx context.Context, user domain.User) (domain.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
	ListOtherUsers(ctx context.Context, callerID uuid.UUID) ([]domain.User, error)
}

// PlanServicer defines the plan operations the plan handler depends on.
type PlanServicer interface {
	Create(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error)
	Get(ctx context.Context, planID, userID uuid.UUID) (domain.TravelPlan, error)
	List(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.TravelPlan, int64, error)
	ListSharedWithMe(ctx context.Context, userID uuid.UUID) ([]domain.TravelPlan, error)
	Update(ctx context.Context, plan domain.TravelPlan, userID uuid.UUID) (domain.TravelPlan, error)
	Delete(ctx context.Context, planID, userID uuid.UUID) error
	Publish(ctx context.Context, planID, userID uuid.UUID) (domain.TravelPlan, error)
	Unpublish(ctx context.Context, planID, userID uuid.UUID) error
	ListShares(ctx context.Context, planID, userID uuid.UUID) ([]domain.PlanShare, error)
	Share(ctx context.Context, planID, ownerID uuid.UUID, username string, permission domain.SharePermission) (domain.PlanShare, error)
	Unshare(ctx context.Context, planID, ownerID uuid.UUID, username string) error
}

// PublicServicer serves the unauthenticated share-token view.
type PublicServicer interface {
	View(ctx context.Context, token uuid.UUID) (domain.PlanDetail, error)
}

// DayServicer defines the day operations the day handler depends on.
type DayServicer interface {
	ListByPlanID(ctx context.Context, planID, userID uuid.UUID) ([]domain.PlanDay, error)
	Create(ctx context.Context, day domain.PlanDay, userID uuid.UUID) (domain.PlanDay, error)
	Update(ctx context.Context, day domain.PlanDay, userID uuid.UUID) (domain.PlanDay, error)
	Delete(ctx context.Context, planID, dayID, userID uuid.UUID) error
}

// AttractionServicer defines the attraction operations the handler depends on.
type AttractionServicer interface {
	ListByDayID(ctx context.Context, dayID, userID uuid.UUID) ([]domain.Attraction, error)
	Append(ctx context.Context, a domain.Attraction, userID uuid.UUID) (domain.Attraction, error)
	Update(ctx context.Context, a domain.Attraction, userID uuid.UUID) (domain.Attraction, error)
	RemoveByID(ctx context.Context, attractionID, userID uuid.UUID) error
	ReorderByID(ctx context.Context, attractionID uuid.UUID, newOrder int, userID uuid.UUID) ([]domain.Attraction, error)
	BulkReplace(ctx context.Context, dayID uuid.UUID, entries []domain.Attraction, userID uuid.UUID) ([]domain.Attraction, error)
}

// FileServicer defines the file operations the file handler depends on.
type FileServicer interface {
	Upload(ctx context.Context, planID, userID uuid.UUID, filename, contentType string, size int64, r io.Reader) (domain.PlanFile, error)
	ListByPlanID(ctx context.Context, planID, userID uuid.UUID) ([]domain.PlanFile, error)
	Download(ctx context.Context, planID, fileID, userID uuid.UUID) (domain.PlanFile, io.ReadCloser, error)
	UpdateDescription(ctx context.Context, planID, fileID, userID uuid.UUID, description string) (domain.PlanFile, error)
	Delete(ctx context.Context, planID, fileID, userID uuid.UUID) error
}

// ExportServicer defines the export operation the export handler depends on.
type ExportServicer interface {
	Export(ctx context.Context, planID, userID uuid.UUID) ([]domain.ExportRow, error)
}

// Server holds every handler's dependencies.
type Server struct {
	auth        AuthServicer
	plans       PlanServicer
	public      PublicServicer
	days        DayServicer
	attractions AttractionServicer
	files       FileServicer
	export      ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(auth AuthServicer, plans PlanServicer, public PublicServicer, days DayServicer, attractions AttractionServicer, files FileServicer, export ExportServicer) *Server {
	return &Server{
		auth:        auth,
		plans:       plans,
		public:      public,
		days:        days,
		attractions: attractions,
		files:       files,
		export:      export,
	}
}

// Routes builds the chi router for the whole API. Request-wide middleware
// (request ID, logging, CORS, recovery) is wired in main; Routes adds only
// the route-specific pieces: per-IP rate limiting on the auth endpoints, JWT
// auth on the private surface, and the upload body cap.
func (s *Server) Routes(tokens *token.Issuer, maxUploadBytes int64) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.getHealth)

	r.Route("/api", func(api chi.Router) {
		limiter := middleware.NewRateLimiter(rate.Every(time.Second), 10)
		api.With(limiter.Limit).Post("/auth/register", s.register)
		api.With(limiter.Limit).Post("/auth/login", s.login)

		api.Get("/public/plans/{token}", s.getPublicPlan)

		api.Group(func(priv chi.Router) {
			priv.Use(middleware.NewAuthHandler(tokens))

			priv.Get("/auth/me", s.getMe)
			priv.Put("/auth/me", s.updateProfile)
			priv.Put("/auth/password", s.changePassword)
			priv.Get("/users", s.listUsers)

			priv.Get("/plans", s.listPlans)
			priv.Post("/plans", s.createPlan)
			priv.Get("/plans/shared-with-me", s.listSharedWithMe)
			priv.Get("/plans/{planID}", s.getPlan)
			priv.Put("/plans/{planID}", s.updatePlan)
			priv.Delete("/plans/{planID}", s.deletePlan)
			priv.Post("/plans/{planID}/publish", s.publishPlan)
			priv.Delete("/plans/{planID}/publish", s.unpublishPlan)

			priv.Get("/plans/{planID}/shares", s.listShares)
			priv.Post("/plans/{planID}/shares", s.sharePlan)
			priv.Delete("/plans/{planID}/shares/{username}", s.unsharePlan)

			priv.Get("/plans/{planID}/days", s.listDays)
			priv.Post("/plans/{planID}/days", s.createDay)
			priv.Put("/plans/{planID}/days/{dayID}", s.updateDay)
			priv.Delete("/plans/{planID}/days/{dayID}", s.deleteDay)

			priv.Get("/days/{dayID}/attractions", s.listAttractions)
			priv.Post("/days/{dayID}/attractions", s.appendAttraction)
			priv.Put("/days/{dayID}/attractions", s.bulkReplaceAttractions)
			priv.Put("/attractions/{attractionID}", s.updateAttraction)
			priv.Put("/attractions/{attractionID}/order", s.reorderAttraction)
			priv.Delete("/attractions/{attractionID}", s.removeAttraction)

			priv.With(middleware.NewMaxBodySizeHandler(maxUploadBytes)).
				Post("/plans/{planID}/files", s.uploadFile)
			priv.Get("/plans/{planID}/files", s.listFiles)
			priv.Get("/plans/{planID}/files/{fileID}", s.downloadFile)
			priv.Put("/plans/{planID}/files/{fileID}", s.updateFileDescription)
			priv.Delete("/plans/{planID}/files/{fileID}", s.deleteFile)

			priv.Get("/plans/{planID}/export", s.exportPlan)
		})
	})

	return r
}

// getHealth handles GET /healthz.
func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
