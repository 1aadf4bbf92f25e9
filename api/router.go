// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"github.com/dmm8rgbc4y-sudo/jantomo/db"
	"github.com/dmm8rgbc4y-sudo/jantomo/internal/credential"
	"github.com/dmm8rgbc4y-sudo/jantomo/internal/device"
	"github.com/dmm8rgbc4y-sudo/jantomo/internal/friend"
	"github.com/dmm8rgbc4y-sudo/jantomo/internal/schedule"
	"github.com/dmm8rgbc4y-sudo/jantomo/middleware"
	"github.com/dmm8rgbc4y-sudo/jantomo/pkg/security"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Argon     *security.ArgonHash
	Users     *credential.Store
	Devices   *device.Manager
	Friends   *friend.Graph
	Schedules *schedule.Store
}

func NewRouter() (*API, error) {
	a := &API{}

	db, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = db

	a.Argon = security.New()
	a.Users = credential.NewStore(db, a.Argon)
	a.Devices = device.NewManager(db)
	a.Friends = friend.NewGraph(db)
	a.Schedules = schedule.NewStore(db)

	makeLogger()

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
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

				if v := c.GetUint("userID"); v != 0 {
					fields = append(fields, zap.Uint("user_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	auth := middleware.NewDeviceTokenMiddleware(a.Devices)
	limiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: viper.GetInt("limits.requests_per_second"),
		Burst:             viper.GetInt("limits.burst"),
	})

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Checks if the device token still authenticates
		main.HEAD("/validate", auth, a.Validate)

		// GET /api/maintenance/cleanup	-> Key-protected sweep of stale rows
		main.GET("/maintenance/cleanup", a.MaintenanceCleanup)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/users		-> Returns the caller's profile
		users.GET("", auth, a.UserFetch)

		// POST /api/users 		-> Registers a new user and logs them in
		users.POST("", limiter, a.UserRegister)

		// POST /api/users/login 	-> Logs in a user and rotates their device token
		users.POST("/login", limiter, a.UserLogin)

		// GET /api/users/logout	-> Revokes the caller's own device token
		users.GET("/logout", auth, a.UserLogout)
	}

	sched := main.Group("/schedule", auth, middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/schedule		-> The caller's own week of entries
		sched.GET("", a.ScheduleFetch)

		// POST /api/schedule/save	-> Saves a submitted list of day/slot items
		sched.POST("/save", a.ScheduleSave)

		// GET /api/schedule/weekly	-> Self + friends merged weekly view
		sched.GET("/weekly", a.ScheduleWeekly)
	}

	friends := main.Group("/friends", auth, middleware.BodySizeLimiter(1<<20))
	{
		// GET /api/friends		-> Accepted friends in relation order
		friends.GET("", a.FriendList)

		// POST /api/friends/request	-> Sends a friend request by username
		friends.POST("/request", a.FriendRequest)

		// GET /api/friends/inbox	-> Pending requests addressed to the caller
		friends.GET("/inbox", a.FriendInbox)

		// POST /api/friends/inbox	-> Accepts or rejects a pending request
		friends.POST("/inbox", a.FriendRespond)

		// POST /api/friends/delete	-> Removes a friend relation
		friends.POST("/delete", a.FriendDelete)

		// GET /api/friends/pending-count -> Badge counter for the inbox
		friends.GET("/pending-count", a.FriendPendingCount)
	}

	return a, nil
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

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
