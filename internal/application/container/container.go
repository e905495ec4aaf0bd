// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/beaconworks/beacon-go/internal/application/services"
	"github.com/beaconworks/beacon-go/internal/domain/admin"
	"github.com/beaconworks/beacon-go/internal/domain/analytics"
	"github.com/beaconworks/beacon-go/internal/domain/content"
	"github.com/beaconworks/beacon-go/internal/domain/leads"
	"github.com/beaconworks/beacon-go/internal/domain/settings"
	"github.com/beaconworks/beacon-go/internal/infrastructure/email"
	"github.com/beaconworks/beacon-go/internal/infrastructure/messaging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/logging"
	"github.com/beaconworks/beacon-go/internal/infrastructure/observability/performance"
	"github.com/beaconworks/beacon-go/internal/infrastructure/persistence/database"
	persistenceAdmin "github.com/beaconworks/beacon-go/internal/infrastructure/persistence/admin"
	persistenceAnalytics "github.com/beaconworks/beacon-go/internal/infrastructure/persistence/analytics"
	persistenceContent "github.com/beaconworks/beacon-go/internal/infrastructure/persistence/content"
	persistenceLeads "github.com/beaconworks/beacon-go/internal/infrastructure/persistence/leads"
	persistenceSettings "github.com/beaconworks/beacon-go/internal/infrastructure/persistence/settings"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	IngestionService *services.IngestionService
	HeatmapService   *services.HeatmapService
	StatsService     *services.StatsService
	LeadService      *services.LeadService
	SessionService   *services.SessionService
	AuthService      *services.AuthService
	PostService      *services.PostService
	SettingsService  *services.SettingsService

	// Repositories
	SessionRepo  analytics.SessionRepository
	EventRepo    analytics.EventRepository
	PageViewRepo analytics.PageViewRepository
	LeadRepo     leads.Repository
	PostRepo     content.PostRepository
	SettingsRepo settings.Repository
	AdminRepo    admin.Repository

	// Infrastructure
	DB          *database.DB
	Broadcaster *messaging.Broadcaster
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewContainer creates and wires all singleton services. emailService
// may be nil when notifications are disabled.
func NewContainer(db *database.DB, emailService email.Service, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	sessionRepo := persistenceAnalytics.NewSQLSessionRepository(db, logger)
	eventRepo := persistenceAnalytics.NewSQLEventRepository(db, logger)
	pageViewRepo := persistenceAnalytics.NewSQLPageViewRepository(db, logger)
	leadRepo := persistenceLeads.NewSQLLeadRepository(db, logger)
	postRepo := persistenceContent.NewSQLPostRepository(db, logger)
	settingsRepo := persistenceSettings.NewSQLSettingsRepository(db, logger)
	adminRepo := persistenceAdmin.NewSQLAdminRepository(db, logger)

	broadcaster := messaging.NewBroadcaster(logger)

	return &Container{
		IngestionService: services.NewIngestionService(sessionRepo, eventRepo, pageViewRepo, broadcaster, logger, perfTracker),
		HeatmapService:   services.NewHeatmapService(eventRepo, logger, perfTracker),
		StatsService:     services.NewStatsService(sessionRepo, eventRepo, logger, perfTracker),
		LeadService:      services.NewLeadService(leadRepo, sessionRepo, emailService, logger, perfTracker),
		SessionService:   services.NewSessionService(sessionRepo, logger, perfTracker),
		AuthService:      services.NewAuthService(adminRepo, logger),
		PostService:      services.NewPostService(postRepo, logger),
		SettingsService:  services.NewSettingsService(settingsRepo, logger),

		SessionRepo:  sessionRepo,
		EventRepo:    eventRepo,
		PageViewRepo: pageViewRepo,
		LeadRepo:     leadRepo,
		PostRepo:     postRepo,
		SettingsRepo: settingsRepo,
		AdminRepo:    adminRepo,

		DB:          db,
		Broadcaster: broadcaster,
		Logger:      logger,
		PerfTracker: perfTracker,
	}
}
