package di

import (
	"context"
	"errors"
	"time"

	"project-tracker/application/serviceimpl"
	"project-tracker/domain/ports"
	"project-tracker/domain/repositories"
	"project-tracker/domain/services"
	"project-tracker/infrastructure/memory"
	"project-tracker/infrastructure/messaging"
	natspkg "project-tracker/infrastructure/nats"
	"project-tracker/infrastructure/postgres"
	redispkg "project-tracker/infrastructure/redis"
	"project-tracker/infrastructure/storage"
	"project-tracker/infrastructure/websocket"
	"project-tracker/interfaces/api/handlers"
	"project-tracker/pkg/config"
	"project-tracker/pkg/logger"
	"project-tracker/pkg/metrics"
	"project-tracker/pkg/scheduler"

	"gorm.io/gorm"
)

const (
	overdueSweepJobID   = "overdue-sweep"
	overdueSweepTimeout = 2 * time.Minute
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	Transactor     repositories.Transactor
	RedisClient    *redispkg.Client // optional: token revocation ข้าม instance
	NATSClient     *natspkg.Client  // optional: activity fan-out ข้าม instance
	NATSSubscriber *natspkg.Subscriber
	Storage        ports.StoragePort
	TokenStore     ports.TokenStorePort
	Publisher      ports.EventPublisherPort
	Metrics        *metrics.Metrics
	Scheduler      scheduler.JobScheduler

	// WebSocket
	Hub       *websocket.Hub
	hubCancel context.CancelFunc

	// Repositories
	UserRepository          repositories.UserRepository
	ProjectRepository       repositories.ProjectRepository
	TaskRepository          repositories.TaskRepository
	CollaborationRepository repositories.CollaborationRepository

	// Services
	UserService    services.UserService
	ProjectService services.ProjectService
	TaskService    services.TaskService
}

func NewContainer() *Container {
	return &Container{}
}

// Initialize ประกอบทุกอย่างสำหรับ API server
func (c *Container) Initialize() error {
	steps := []func() error{
		c.initConfig,
		c.initLogger,
		c.initDatabase,
		c.initInfrastructure,
		c.initRepositories,
		c.initServices,
		c.initScheduler,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	logger.Info("Container initialized")
	return nil
}

// InitializeDatabase ต่อ database แล้ว migrate อย่างเดียว
func (c *Container) InitializeDatabase() error {
	for _, step := range []func() error{c.initConfig, c.initLogger, c.initDatabase} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// InitializeCore ใช้กับคำสั่ง CLI: มีแค่ database กับ service ไม่ต่อ redis/nats และไม่ start scheduler
func (c *Container) InitializeCore() error {
	steps := []func() error{
		c.initConfig,
		c.initLogger,
		c.initDatabase,
		c.initStorage,
		c.initRepositories,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	c.TokenStore = memory.NewTokenStore()
	c.Publisher = messaging.NoopPublisher{}
	return c.initServices()
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded", "env", cfg.App.Env)
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initDatabase() error {
	dbConfig := postgres.DatabaseConfig{
		Driver:     c.Config.Database.Driver,
		Host:       c.Config.Database.Host,
		Port:       c.Config.Database.Port,
		User:       c.Config.Database.User,
		Password:   c.Config.Database.Password,
		DBName:     c.Config.Database.DBName,
		SSLMode:    c.Config.Database.SSLMode,
		SQLitePath: c.Config.Database.SQLitePath,
		LogLevel:   c.Config.Database.LogLevel,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	c.Transactor = postgres.NewTransactor(db)
	logger.Info("Database connected", "driver", dbConfig.Driver, "db", dbConfig.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")
	return nil
}

func (c *Container) initInfrastructure() error {
	c.Metrics = metrics.New()

	// Token store: redis ถ้ามี ไม่งั้นใช้ memory (revocation อยู่แค่ใน process นี้)
	c.TokenStore = memory.NewTokenStore()
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (token revocation is process-local)", "error", err)
		} else {
			c.RedisClient = redisClient
			c.TokenStore = redispkg.NewTokenStore(redisClient)
		}
	}

	// Hub รันจนกว่า Cleanup จะ cancel
	c.Hub = websocket.NewHub()
	hubCtx, cancel := context.WithCancel(context.Background())
	c.hubCancel = cancel
	go c.Hub.Run(hubCtx)

	if err := c.initMessaging(); err != nil {
		return err
	}

	return c.initStorage()
}

// initMessaging มี NATS: service publish ลง JetStream แล้ว subscriber ส่งต่อเข้า hub
// ทุก instance เลยเห็น activity เดียวกัน ไม่มี NATS: publish เข้า hub ตรงๆ
func (c *Container) initMessaging() error {
	var publisher ports.EventPublisherPort = c.Hub

	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:    c.Config.NATS.URL,
			MaxAge: c.Config.NATS.ActivityTTL,
		})
		if err != nil {
			logger.Warn("NATS client initialization failed (activity stays in-process)", "error", err)
		} else {
			c.NATSClient = natsClient
			publisher = natspkg.NewPublisher(natsClient)

			c.NATSSubscriber = natspkg.NewSubscriber(natsClient.Conn())
			c.NATSSubscriber.OnActivity(func(event *ports.ActivityEvent) {
				if err := c.Hub.Publish(context.Background(), event); err != nil {
					logger.Warn("Failed to forward activity to websocket hub", "type", event.Type, "error", err)
				}
			})
			if err := c.NATSSubscriber.Start(); err != nil {
				return err
			}
		}
	}

	c.Publisher = messaging.NewMeteredPublisher(publisher, c.Metrics)
	return nil
}

// initStorage สร้าง storage adapter ตาม config
func (c *Container) initStorage() error {
	switch c.Config.Storage.Type {
	case "s3":
		s3Storage, err := storage.NewS3Storage(storage.S3StorageConfig{
			Endpoint:  c.Config.Storage.S3.Endpoint,
			AccessKey: c.Config.Storage.S3.AccessKey,
			SecretKey: c.Config.Storage.S3.SecretKey,
			Bucket:    c.Config.Storage.S3.Bucket,
			UseSSL:    c.Config.Storage.S3.UseSSL,
			Region:    c.Config.Storage.S3.Region,
			PublicURL: c.Config.Storage.S3.PublicURL,
		})
		if err != nil {
			return err
		}
		c.Storage = s3Storage
		logger.Info("Storage initialized", "type", "s3",
			"endpoint", c.Config.Storage.S3.Endpoint,
			"bucket", c.Config.Storage.S3.Bucket,
		)
	default:
		localStorage, err := storage.NewLocalStorage(storage.LocalStorageConfig{
			BasePath:       c.Config.Storage.BasePath,
			BaseURL:        c.Config.Storage.BaseURL,
			MinFreePercent: c.Config.Storage.MinFreePercent,
		})
		if err != nil {
			return err
		}
		c.Storage = localStorage
		logger.Info("Storage initialized", "type", "local", "path", c.Config.Storage.BasePath)
	}
	return nil
}

func (c *Container) initRepositories() error {
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.ProjectRepository = postgres.NewProjectRepository(c.DB)
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	c.CollaborationRepository = postgres.NewCollaborationRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initServices() error {
	c.UserService = serviceimpl.NewUserService(
		c.UserRepository,
		c.ProjectRepository,
		c.TaskRepository,
		c.CollaborationRepository,
		c.Transactor,
		c.TokenStore,
		c.Publisher,
		c.Config.JWT.Secret,
		c.Config.JWT.TTL,
	)
	c.ProjectService = serviceimpl.NewProjectService(
		c.ProjectRepository,
		c.TaskRepository,
		c.CollaborationRepository,
		c.UserRepository,
		c.Transactor,
		c.Storage,
		c.Publisher,
	)
	c.TaskService = serviceimpl.NewTaskService(
		c.TaskRepository,
		c.ProjectRepository,
		c.UserRepository,
		c.CollaborationRepository,
		c.Transactor,
		c.Storage,
		c.Publisher,
		c.Config.Storage.MaxUploadSize,
	)
	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	if !c.Config.Scheduler.Enabled {
		logger.Info("Job scheduler disabled")
		return nil
	}

	c.Scheduler = scheduler.NewJobScheduler()
	err := c.Scheduler.AddJob(overdueSweepJobID, c.Config.Scheduler.OverdueSweepCron, overdueSweepTimeout, c.sweepOverdueTasks)
	if err != nil {
		return err
	}

	c.Scheduler.Start()
	return nil
}

func (c *Container) sweepOverdueTasks(ctx context.Context) error {
	count, err := c.TaskService.SweepOverdueTasks(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	c.Metrics.OverdueTasks.Set(float64(count))
	logger.Info("Overdue sweep finished", "overdue", count)
	return nil
}

func (c *Container) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	if c.RedisClient != nil {
		checks["redis"] = c.RedisClient.Ping
	}
	if c.NATSClient != nil {
		checks["nats"] = func(ctx context.Context) error {
			if !c.NATSClient.Conn().IsConnected() {
				return errors.New("not connected")
			}
			_, err := c.NATSClient.GetStatus(ctx)
			return err
		}
	}
	return checks
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.Scheduler != nil && c.Scheduler.IsRunning() {
		c.Scheduler.Stop()
	}

	if c.NATSSubscriber != nil {
		if err := c.NATSSubscriber.Stop(); err != nil {
			logger.Warn("Failed to stop NATS subscriber", "error", err)
		}
	}

	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		}
	}

	// ปิด hub หลัง subscriber เพื่อไม่ให้มี event ค้าง
	if c.hubCancel != nil {
		c.hubCancel()
		logger.Info("WebSocket hub stopped")
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:    c.UserService,
		ProjectService: c.ProjectService,
		TaskService:    c.TaskService,
		Metrics:        c.Metrics,
		HealthChecks:   c.healthChecks(),
		JWTTTL:         c.Config.JWT.TTL,
		MaxUploadSize:  c.Config.Storage.MaxUploadSize,
	}
}
