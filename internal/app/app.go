package app

import (
	"github.com/gorilla/mux"

	"boringblog/internal/config"
	"boringblog/internal/db"
	"boringblog/internal/handlers"
	"boringblog/internal/render"
	"boringblog/internal/repository"
	"boringblog/internal/routes"
	"boringblog/internal/services"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	postRepo := repository.NewPostRepo(conn)
	tagRepo := repository.NewTagRepo(conn)

	// Сервисы
	renderer := render.NewRenderer()
	postService := services.NewPostService(postRepo, renderer)
	authService := services.NewAuthService(userRepo, cfg)
	feedService := services.NewFeedService(postRepo, tagRepo, userRepo, cfg)
	emailService := services.NewEmailService(cfg)

	// Хендлеры
	postHandler := handlers.NewPostHandler(postService)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	tagHandler := handlers.NewTagHandler(tagRepo)
	userHandler := handlers.NewUserHandler(authService)
	feedHandler := handlers.NewFeedHandler(feedService)

	// Воркеры отправки писем
	for i := 0; i < 3; i++ {
		go services.StartEmailWorker(emailService)
	}

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, cfg.JWTSecret, authHandler, postHandler, tagHandler, userHandler, feedHandler)

	return router, nil
}
