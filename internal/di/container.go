package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/DJprogre33/booking-app/internal/config"
	"github.com/DJprogre33/booking-app/internal/database"
	"github.com/DJprogre33/booking-app/internal/handler"
	"github.com/DJprogre33/booking-app/internal/logger"
	"github.com/DJprogre33/booking-app/internal/redis"
	"github.com/DJprogre33/booking-app/internal/repository"
	"github.com/DJprogre33/booking-app/internal/service"
)

// Container wires all application dependencies
type Container struct {
	Config *config.Config

	DB    *database.PostgresDB
	Redis *redis.Client

	Publisher service.EventPublisher

	AuthService    service.AuthService
	HotelService   service.HotelService
	RoomService    service.RoomService
	BookingService service.BookingService

	AuthHandler    *handler.AuthHandler
	HotelHandler   *handler.HotelHandler
	RoomHandler    *handler.RoomHandler
	BookingHandler *handler.BookingHandler
	HealthHandler  *handler.HealthHandler
}

// NewContainer builds the dependency graph. Kafka and Redis are optional:
// when they cannot be reached the container degrades to a no-op publisher
// and no idempotency cache.
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	c.DB = db

	redisClient, err := redis.NewClient(ctx, &redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	})
	if err != nil {
		logger.Get().Warn("redis unavailable, idempotency cache disabled", zap.Error(err))
	} else {
		c.Redis = redisClient
	}

	publisher, err := service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    cfg.Kafka.Topic,
		ClientID: cfg.Kafka.ClientID,
	})
	if err != nil {
		logger.Get().Warn("kafka unavailable, booking events disabled", zap.Error(err))
		c.Publisher = service.NewNoOpEventPublisher()
	} else {
		c.Publisher = publisher
	}

	factory := repository.NewPgxUnitOfWorkFactory(db.Pool())

	c.AuthService = service.NewAuthService(factory, service.AuthConfig{
		JWTSecret:       cfg.JWT.Secret,
		AccessTokenTTL:  cfg.JWT.AccessTokenTTL,
		RefreshTokenTTL: cfg.JWT.RefreshTokenTTL,
	})
	c.HotelService = service.NewHotelService(factory)
	c.RoomService = service.NewRoomService(factory)
	c.BookingService = service.NewBookingService(factory, c.Publisher)

	c.AuthHandler = handler.NewAuthHandler(c.AuthService)
	c.HotelHandler = handler.NewHotelHandler(c.HotelService)
	c.RoomHandler = handler.NewRoomHandler(c.RoomService, c.BookingService)
	c.BookingHandler = handler.NewBookingHandler(c.BookingService)

	var cachePinger handler.Pinger
	if c.Redis != nil {
		cachePinger = c.Redis
	}
	c.HealthHandler = handler.NewHealthHandler(db, cachePinger)

	return c, nil
}

// Close releases all container resources.
func (c *Container) Close() {
	if c.Publisher != nil {
		_ = c.Publisher.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
