package http

import (
	"github.com/gin-gonic/gin"

	appsvc "mediaitor/internal/app"
	"mediaitor/internal/bootstrap"
	"mediaitor/internal/config"
	"mediaitor/internal/platform/rabbitmq"
	"mediaitor/internal/repository"
	"mediaitor/internal/transport/http/handler"
	"mediaitor/internal/transport/http/middleware"
)

// Services are the operations exposed as remote procedures.
type Services struct {
	Users       *appsvc.UserService
	Sessions    *appsvc.SessionService
	Reflections *appsvc.ReflectionService
}

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)

	userRepo := repository.NewUserRepository(app.DB)
	sessionRepo := repository.NewSessionRepository(app.DB)
	messageRepo := repository.NewMessageRepository(app.DB)
	reflectionRepo := repository.NewReflectionRepository(app.DB)

	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)

	router := NewEngine(app.Config.Auth, Services{
		Users:       appsvc.NewUserService(userRepo, app.Log),
		Sessions:    appsvc.NewSessionService(userRepo, sessionRepo, messageRepo, publisher, app.HistoryCache, app.Log),
		Reflections: appsvc.NewReflectionService(userRepo, reflectionRepo, app.Log),
	})

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)
	return router
}

// NewEngine registers the procedure routes. Procedures are addressed as
// /api/v1/<router>.<procedure>, queries by GET and mutations by POST.
func NewEngine(auth config.AuthConfig, services Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.Identity(auth.JWTSecret, auth.JWTIssuer))

	userHandler := handler.NewUserHandler(services.Users)
	sessionHandler := handler.NewSessionHandler(services.Sessions)
	reflectionHandler := handler.NewReflectionHandler(services.Reflections)

	v1 := router.Group("/api/v1")
	v1.GET("/user.getCurrentUser", userHandler.GetCurrentUser)

	authed := v1.Group("", middleware.RequireIdentity())
	authed.POST("/user.syncCurrentUser", userHandler.SyncCurrentUser)

	authed.POST("/session.createSession", sessionHandler.CreateSession)
	authed.GET("/session.getSession", sessionHandler.GetSession)
	authed.POST("/session.joinSession", sessionHandler.JoinSession)
	authed.POST("/session.sendMessage", sessionHandler.SendMessage)

	authed.POST("/reflection.createReflection", reflectionHandler.CreateReflection)
	authed.GET("/reflection.listReflections", reflectionHandler.ListReflections)

	return router
}
