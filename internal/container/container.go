package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joshua-takyi/rendez/internal/config"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
	"github.com/joshua-takyi/rendez/internal/services"
	"github.com/joshua-takyi/rendez/internal/ws"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Stores groups the repositories the services are built on.
type Stores struct {
	Users       models.UserRepo
	Swipes      models.SwipeRepo
	Matches     models.MatchRepo
	Messages    models.MessageRepo
	Photos      models.PhotoRepo
	Blocks      models.BlockRepo
	Interests   models.InterestRepo
	Admin       models.AdminRepo
	ResetCodes  models.ResetCodeRepo
	RateWindows models.RateWindowStore
}

type Options struct {
	Stores      Stores
	Tokens      *helpers.TokenIssuer
	Uploader    services.ImageUploader
	Mailer      services.Mailer
	Admin       services.AdminCredentials
	RateLimit   int
	CORSOrigins []string
}

// Container holds all application dependencies
type Container struct {
	Logger      *slog.Logger
	Hub         *ws.Hub
	Tokens      *helpers.TokenIssuer
	RateLimiter *services.RateLimiter
	CORSOrigins []string

	// set by NewContainer only
	Graph     *models.Neo4jRepo
	Documents *models.MongodbRepo

	AuthService     *services.AuthService
	UserService     *services.UserService
	SwipeService    *services.SwipeService
	MatchService    *services.MatchService
	MessageService  *services.MessageService
	PhotoService    *services.PhotoService
	BlockService    *services.BlockService
	InterestService *services.InterestService
	AdminService    *services.AdminService
}

// NewContainer wires the production stores and clients.
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	driver neo4j.DriverWithContext,
	mongoClient *mongo.Client,
	redisClient *redis.Client,
	cld *cloudinary.Cloudinary,
) *Container {
	graph := models.Neo4jNewRepo(driver, cfg.Neo4jDatabase)
	documents := models.MongodbNewRepo(mongoClient, cfg.MongoDBDatabase)

	var rateWindows models.RateWindowStore
	if redisClient != nil {
		rateWindows = models.RedisNewRepo(redisClient)
	}

	var uploader services.ImageUploader
	if cld != nil {
		uploader = helpers.NewCloudinaryUploader(cld)
	}

	var mailer services.Mailer
	if cfg.MailEnabled() {
		mailer = helpers.NewSMTPMailer(helpers.SMTPConfig{
			Host:      cfg.SMTPServer,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUsername,
			Password:  cfg.SMTPPassword,
			FromEmail: cfg.FromEmail,
			FromName:  cfg.FromName,
		})
	} else {
		logger.Warn("SMTP credentials not set, emails will not be sent")
	}

	c := New(logger, Options{
		Stores: Stores{
			Users:       graph,
			Swipes:      graph,
			Matches:     graph,
			Messages:    graph,
			Photos:      graph,
			Blocks:      graph,
			Interests:   graph,
			Admin:       graph,
			ResetCodes:  documents,
			RateWindows: rateWindows,
		},
		Tokens:   helpers.NewTokenIssuer(cfg.JWTSecret, cfg.JWTKeyID, cfg.AccessTokenTTL),
		Uploader: uploader,
		Mailer:   mailer,
		Admin: services.AdminCredentials{
			Email:        cfg.AdminEmail,
			PasswordHash: cfg.AdminPasswordHash,
		},
		RateLimit:   cfg.RateLimitPerMinute,
		CORSOrigins: cfg.CORSOrigins,
	})
	c.Graph = graph
	c.Documents = documents
	return c
}

// New builds the hub and every service from opts.
func New(logger *slog.Logger, opts Options) *Container {
	s := opts.Stores
	hub := ws.NewHub(logger)

	return &Container{
		Logger:      logger,
		Hub:         hub,
		Tokens:      opts.Tokens,
		RateLimiter: services.NewRateLimiter(s.RateWindows, opts.RateLimit),
		CORSOrigins: opts.CORSOrigins,

		AuthService:     services.NewAuthService(s.Users, s.Interests, s.ResetCodes, opts.Tokens, opts.Mailer, logger),
		UserService:     services.NewUserService(s.Users, s.Photos, s.Interests),
		SwipeService:    services.NewSwipeService(s.Swipes, s.Matches, hub, logger),
		MatchService:    services.NewMatchService(s.Matches),
		MessageService:  services.NewMessageService(s.Messages, s.Matches, s.Users, hub, logger),
		PhotoService:    services.NewPhotoService(s.Photos, opts.Uploader, logger),
		BlockService:    services.NewBlockService(s.Blocks, s.Matches, s.Users, logger),
		InterestService: services.NewInterestService(s.Interests),
		AdminService:    services.NewAdminService(s.Admin, s.Users, s.Matches, opts.Tokens, opts.Admin),
	}
}
