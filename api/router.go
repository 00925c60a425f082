// Package api contains all endpoints available
package api

import (
	"fmt"
	"net/http"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"matchday/social-api/db"
	"matchday/social-api/middleware"
	"matchday/social-api/model"
	"matchday/social-api/security"
	"matchday/social-api/service"
	"matchday/social-api/store"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

var cacheStore = persist.NewMemoryStore(time.Minute)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Auth   *service.Auth
	Feed   *service.Feed
	Tokens *security.TokenIssuer
	Users  *store.UserStore
}

// NewRouter wires the whole app from viper config: database, token issuer,
// mailer, services and routes.
func NewRouter() (*API, error) {
	makeLogger()

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	tokens, err := security.NewTokenIssuer(
		viper.GetString("jwt.access_secret"),
		viper.GetString("jwt.refresh_secret"),
		15*time.Minute,
		7*24*time.Hour,
	)
	if err != nil {
		return nil, err
	}

	otpTTL := time.Duration(viper.GetInt("otp.ttl_minutes")) * time.Minute

	return New(conn, tokens, service.NewMailer(), otpTTL)
}

// New builds the API around already-constructed dependencies. Tests use it
// directly with an in-memory database and a stub mailer.
func New(conn *gorm.DB, tokens *security.TokenIssuer, mailer service.OtpSender, otpTTL time.Duration) (*API, error) {
	hasher := security.NewHasher()

	auth, err := service.NewAuth(conn, hasher, tokens, mailer, otpTTL)
	if err != nil {
		return nil, err
	}

	a := &API{
		DB:     conn,
		Auth:   auth,
		Feed:   service.NewFeed(conn),
		Tokens: tokens,
		Users:  store.NewUserStore(conn),
	}

	a.Router = a.routes()

	return a, nil
}

func (a *API) routes() *gin.Engine {
	router := gin.New()

	origins := viper.GetStringSlice("host.cors")
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString(middleware.CtxUserID); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("Can't find %v on this server", c.Request.URL.Path),
		})
	})

	protect := middleware.Protect(a.Users, a.Tokens)

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)
	}

	auth := main.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/auth/register 	-> Creates an unverified account and mails an OTP
		auth.POST("/register", a.AuthRegister)

		// POST /api/auth/verify 	-> Consumes an OTP and activates the account
		auth.POST("/verify", a.AuthVerify)

		// POST /api/auth/login 	-> Checks credentials and issues both tokens
		auth.POST("/login", a.AuthLogin)

		// POST /api/auth/refresh-token -> Exchanges a refresh token for a new access token
		auth.POST("/refresh-token", a.AuthRefresh)

		// POST /api/auth/set-profile 	-> Sets username and bio (onboarding)
		auth.POST("/set-profile", protect, a.AuthSetProfile)

		// POST /api/auth/select-club 	-> Sets the user's club (onboarding)
		auth.POST("/select-club", protect, a.AuthSelectClub)
	}

	feed := main.Group("/feed")
	{
		// GET /api/feed		-> Lists posts newest first
		feed.GET("", cacheFor(30), a.FeedFetch)

		// POST /api/feed		-> Creates a post
		feed.POST("", protect, middleware.BodySizeLimiter(1<<20), a.FeedCreate)
	}

	admin := main.Group("/admin", protect, middleware.Authorize(model.RoleAdmin))
	{
		// GET /api/admin/users		-> Lists all accounts
		admin.GET("/users", a.AdminUsers)
	}

	return router
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

func cacheFor(sec int) gin.HandlerFunc {
	return cache.CacheByRequestURI(cacheStore, time.Second*time.Duration(sec))
}
