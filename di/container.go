package di

import (
	"context"
	"fmt"
	"log"
	"time"

	"fiestas-server/analytics"
	"fiestas-server/api"
	eventsource "fiestas-server/api/events"
	"fiestas-server/config"
	"fiestas-server/dao/postgres"
	"fiestas-server/dao/redis"
	"fiestas-server/db"
	"fiestas-server/festival"
	"fiestas-server/imaging"
	"fiestas-server/models"
	"fiestas-server/server"
	"fiestas-server/server/handlers"
	services "fiestas-server/service"
	"fiestas-server/storage"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
)

// Container holds all application dependencies.
type Container struct {
	Config                  *config.Config
	RedisClient             db.RedisClient
	RedisEventDao           *redis.RedisEventDAO
	EventSource             eventsource.EventSource
	EventService            *services.EventService
	FavoritesService        *services.FavoritesService
	ConsentService          *services.ConsentService
	PhotoService            *services.PhotoService
	CalendarService         *services.CalendarService
	Tracker                 *analytics.Tracker
	MuxRouter               *mux.Router
	Router                  *server.Router
	FestivalHttpServer      *server.FestivalHttpServer
	CatalogRefresherService *services.CatalogRefresherService
	StatusTickerService     *services.StatusTickerService
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Printf("initializing container - env: %s", cfg.Env)
	ctx := context.Background()

	redisClient, err := newRedisClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// Festival core
	clock := festival.NewClock(cfg.Festival.CutoverHour, cfg.Location())
	resolver := festival.NewResolver(clock, cfg.Festival.DefaultDuration)
	labeler := festival.NewLabeler()

	// DAOs
	redisEventDao := redis.NewRedisEventDAO(redisClient)
	favoritesDao := redis.NewRedisFavoritesDAO(redisClient)
	consentDao := redis.NewRedisConsentDAO(redisClient)
	photoRepo, err := newPhotoRepository(cfg, redisClient)
	if err != nil {
		return nil, err
	}

	// Catalog source
	var source eventsource.EventSource
	if cfg.Catalog.Source == config.CATALOG_SOURCE_REMOTE {
		log.Printf("Using remote event catalog at %s", cfg.Catalog.RemoteBaseURL)
		source = eventsource.NewRemoteEventsClient(api.NewHTTPClient(cfg.Catalog.RemoteBaseURL))
	} else {
		log.Printf("Using static event catalog at %s", cfg.Catalog.StaticPath)
		source = eventsource.NewStaticFileSource(cfg.Catalog.StaticPath)
	}

	// Analytics
	var sink analytics.Sink
	switch cfg.Analytics.Sink {
	case config.ANALYTICS_SINK_AMQP:
		log.Printf("Using AMQP analytics sink, queue %s", cfg.Analytics.Queue)
		sink = analytics.NewAMQPSink(cfg.Analytics.AMQPURL, cfg.Analytics.Queue)
	case config.ANALYTICS_SINK_NONE:
		sink = analytics.NopSink{}
	default:
		sink = analytics.NewLogSink()
	}
	tracker := analytics.NewTracker(sink, true)

	// Photo storage
	objectStore, err := storage.NewFileObjectStore(cfg.Photos.StorageDir, cfg.Photos.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	compressor := imaging.NewCompressor(cfg.Photos.MaxDimension, cfg.Photos.ThumbnailDimension, cfg.Photos.JPEGQuality,
		cfg.Photos.MaxPixels)
	limits := services.PhotoLimits{MaxFiles: cfg.Photos.MaxFiles, MaxFileBytes: cfg.Photos.MaxFileBytes}

	// Services
	eventService := services.NewEventService(redisEventDao, resolver, labeler, services.FestivalSettings{
		Name:      cfg.Festival.Name,
		StartDate: cfg.Festival.StartDate,
		EndDate:   cfg.Festival.EndDate,
	}, cfg.Catalog.StatusOverrideTTL)
	favoritesService := services.NewFavoritesService(favoritesDao)
	consentService := services.NewConsentService(consentDao)
	photoService := services.NewPhotoService(eventService, photoRepo, objectStore, compressor, limits)
	calendarService := services.NewCalendarService(eventService, cfg.Festival.Name, services.DEFAULT_REMINDER_MINUTES)
	catalogRefresherService := services.NewCatalogRefresherService(source, redisEventDao, clock)
	statusTickerService := services.NewStatusTickerService(redisEventDao, resolver)
	statusTickerService.Subscribe(func(c models.StatusChange) {
		log.Printf("[StatusTicker] %s (%s): %s -> %s", c.EventID, c.Name, c.From, c.To)
	})
	statusTickerService.Subscribe(func(c models.StatusChange) {
		ctx, cancel := context.WithTimeout(context.Background(), analytics.EMIT_TIMEOUT)
		defer cancel()
		if err := sink.Emit(ctx, analytics.StatusChangeEvent(c)); err != nil {
			log.Printf("[StatusTicker] Dropping status change of %s: %v", c.EventID, err)
		}
	})

	// Handlers
	eventHandler := handlers.NewEventHandler(eventService, tracker, consentService)
	favoritesHandler := handlers.NewFavoritesHandler(favoritesService, eventService, tracker, consentService)
	consentHandler := handlers.NewConsentHandler(consentService)
	analyticsHandler := handlers.NewAnalyticsHandler(tracker, consentService)
	photoHandler := handlers.NewPhotoHandler(photoService, limits, tracker, consentService)
	calendarHandler := handlers.NewCalendarHandler(calendarService, favoritesService, tracker, consentService)

	// Initialize mux router
	muxRouter := mux.NewRouter()

	// Initialize router
	router := server.NewRouter(eventHandler, favoritesHandler, consentHandler,
		analyticsHandler, photoHandler, calendarHandler, muxRouter)
	if cfg.Photos.MediaRoute != "" {
		router.ServeMedia(cfg.Photos.MediaRoute, objectStore.Root())
	}

	festivalHttpServer := server.NewFestivalHttpServer(router, muxRouter, cfg.Listen,
		config.SHUTDOWN_TIMEOUT_SECONDS*time.Second)

	return &Container{
		Config:                  cfg,
		RedisClient:             redisClient,
		RedisEventDao:           redisEventDao,
		EventSource:             source,
		EventService:            eventService,
		FavoritesService:        favoritesService,
		ConsentService:          consentService,
		PhotoService:            photoService,
		CalendarService:         calendarService,
		Tracker:                 tracker,
		MuxRouter:               muxRouter,
		Router:                  router,
		FestivalHttpServer:      festivalHttpServer,
		CatalogRefresherService: catalogRefresherService,
		StatusTickerService:     statusTickerService,
	}, nil
}

// newRedisClient uses the in-memory mock outside prod.
func newRedisClient(ctx context.Context, cfg *config.Config) (db.RedisClient, error) {
	if cfg.Env != config.ENV_PROD {
		log.Printf("Using mock redis client")
		return db.NewMockRedisClient(ctx), nil
	}

	redisInternalClient := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisClient := db.NewGoRedisClient(ctx, redisInternalClient)
	if err := redisClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Address, err)
	}
	return redisClient, nil
}

func newPhotoRepository(cfg *config.Config, redisClient db.RedisClient) (services.PhotoRepository, error) {
	if cfg.Photos.MetadataStore == config.PHOTOS_METADATA_POSTGRES {
		log.Printf("Using postgres photo metadata store")
		repo, err := postgres.OpenPhotoDAO(cfg.Photos.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to open photo metadata store: %w", err)
		}
		return repo, nil
	}
	return redis.NewRedisPhotoDAO(redisClient), nil
}
