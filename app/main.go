package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Himanshusingh9647/stackit-qa-platform/internal/realtime"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/repository"
	mysqlRepo "github.com/Himanshusingh9647/stackit-qa-platform/internal/repository/mysql"
	myRedisCache "github.com/Himanshusingh9647/stackit-qa-platform/internal/repository/redis"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/workers"

	"github.com/Himanshusingh9647/stackit-qa-platform/internal/rest"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/rest/middleware"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/usecase/answer"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/usecase/notification"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/usecase/question"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/usecase/user"
	"github.com/Himanshusingh9647/stackit-qa-platform/internal/usecase/vote"
	"github.com/joho/godotenv"
)

const (
	defaultTimeout      = 30
	defaultAddress      = ":9090"
	defaultCacheDB      = 0
	defaultBloomBitSize = 10000000
	dbMaxRetry          = 10
	dbRetryIntervalSec  = 2
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "UTC")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	var (
		db  *gorm.DB
		err error
	)

	for i := 0; i < dbMaxRetry; i++ {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Printf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, err := db.DB()
			if err != nil {
				log.Printf("failed to get sql.DB from gorm.DB (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				continue
			}
			err = sqlDB.Ping()
			if err == nil {
				break
			}
			log.Printf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
			_ = sqlDB.Close()
		}

		time.Sleep(dbRetryIntervalSec * time.Second)
	}

	if err != nil {
		log.Fatal("could not connect to database after retries:", err)
	}

	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal("got error when getting sql.DB from gorm.DB", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Fatal("got error when closing the DB connection", err)
		}
	}()

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDBStr := os.Getenv("CACHE_DB")
	cacheDB, err := strconv.Atoi(cacheDBStr)
	if err != nil {
		log.Println("failed to parse cacheDB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		err = client.Close()
		if err != nil {
			log.Fatal("got error when closing the cache connection", err)
		}
	}()

	_, err = client.Ping(context.Background()).Result()
	if err != nil {
		log.Fatal("failed to open connection to cache", err)
		return
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS())
	timeoutStr := os.Getenv("CONTEXT_TIMEOUT")
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil {
		log.Println("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	timeoutContext := time.Duration(timeout) * time.Second
	route.Use(middleware.SetRequestContextWithTimeout(timeoutContext))

	if err := rest.RegisterValidations(); err != nil {
		log.Fatal("failed to register custom validations:", err)
	}

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)
	questionRepo := mysqlRepo.NewQuestionRepository(db)
	answerRepo := mysqlRepo.NewAnswerRepository(db)
	voteRepo := mysqlRepo.NewVoteRepository(db)
	notificationRepo := mysqlRepo.NewNotificationRepository(db)

	scoreCache := myRedisCache.NewScoreCache(client)
	scoreRepo := repository.NewScoreRepository(scoreCache, voteRepo)

	bloomBitSizeStr := os.Getenv("BLOOM_FILTER_SIZE")
	bloomBitSize, err := strconv.ParseUint(bloomBitSizeStr, 10, 64)
	if err != nil {
		log.Printf("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := myRedisCache.NewRedisBloomRepo(client, bloomBitSize)

	// Realtime hub
	hub := realtime.NewHub()

	// Start workers
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scoresSyncer := workers.NewSyncScoresWorker(scoreCache)
	go scoresSyncer.Start(ctx)

	// Build service layer
	jwtSecret := []byte(os.Getenv("JWT_SECRET"))
	jwtTTLStr := os.Getenv("JWT_EXPIRE_HOURS")
	jwtTTL, err := strconv.Atoi(jwtTTLStr)
	if err != nil {
		log.Println("failed to parse JWT TTL, using default 24 hours")
		jwtTTL = 24
	}

	userSvc := user.NewService(userRepo, jwtSecret, time.Duration(jwtTTL)*time.Hour)
	notificationSvc := notification.NewService(notificationRepo, userRepo, hub)

	notifier := workers.NewNotifyWorker(notificationSvc)
	go notifier.Start(ctx)

	questionSvc := question.NewService(questionRepo, answerRepo, userRepo, scoreRepo, bloomRepo, hub)
	answerSvc := answer.NewService(answerRepo, questionRepo, userRepo, scoreRepo, hub, notifier)
	voteSvc := vote.NewService(voteRepo, questionRepo, answerRepo, hub, scoresSyncer)

	questionHandler := rest.NewQuestionHandler(questionSvc)
	answerHandler := rest.NewAnswerHandler(answerSvc)
	voteHandler := rest.NewVoteHandler(voteSvc)
	notificationHandler := rest.NewNotificationHandler(notificationSvc)
	userHandler := rest.NewUserHandler(userSvc)

	wsManager := realtime.NewManager(hub, func(token string) (int64, error) {
		claims, err := middleware.ParseToken(jwtSecret, token)
		if err != nil {
			return 0, err
		}
		return claims.UserID, nil
	})

	authMiddleware := middleware.AuthMiddleware(string(jwtSecret))

	// Prepare bloom filter
	if err := questionSvc.InitBloomFilter(ctx); err != nil {
		log.Printf("failed to init bloom filter: %v\n", err)
		return
	}

	// Register routes
	route.POST("/register", userHandler.Register)
	route.POST("/login", userHandler.Login)

	route.GET("/questions", questionHandler.Fetch)
	route.GET("/questions/:id", questionHandler.GetByID)

	route.GET("/ws", wsManager.ServeWS)

	authorized := route.Group("/")
	authorized.Use(authMiddleware)
	{
		authorized.POST("/questions", questionHandler.Store)
		authorized.DELETE("/questions/:id", questionHandler.Delete)
		authorized.POST("/questions/:id/answers", answerHandler.Store)
		authorized.PUT("/answers/:id", answerHandler.Update)
		authorized.DELETE("/answers/:id", answerHandler.Delete)

		authorized.POST("/votes", voteHandler.Cast)
		authorized.GET("/votes/:targetType/:targetId", voteHandler.GetCallerVote)

		authorized.GET("/notifications", notificationHandler.List)
		authorized.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		authorized.PATCH("/notifications/mark-all-read", notificationHandler.MarkAllRead)
		authorized.DELETE("/notifications/:id", notificationHandler.Delete)
	}

	// Start server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		log.Printf("Server is running on %s\n", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	log.Println("Waiting for workers to cleanup...")
	time.Sleep(2 * time.Second)

	log.Println("Server exiting")
}
