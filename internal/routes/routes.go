package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"boringblog/internal/handlers"
	"boringblog/internal/middleware"
	"boringblog/internal/models"
)

func InitRoutes(
	router *mux.Router,
	jwtSecret string,
	authHandler *handlers.AuthHandler,
	postHandler *handlers.PostHandler,
	tagHandler *handlers.TagHandler,
	userHandler *handlers.UserHandler,
	feedHandler *handlers.FeedHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	identify := middleware.Identify(jwtSecret)

	// --- Ленты (вне /api, по привычным адресам) ---
	router.HandleFunc("/feed.xml", feedHandler.RSS).Methods("GET")
	router.HandleFunc("/sitemap.xml", feedHandler.Sitemap).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handlers.Health).Methods("GET")

	// --- Публичные маршруты ---
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods("POST")
	api.HandleFunc("/auth/forgot-password", authHandler.ForgotPassword).Methods("POST")
	api.HandleFunc("/auth/reset-password", authHandler.ResetPassword).Methods("POST")

	// витрина и карточка поста: доступны анонимно, но личность
	// (если есть токен) учитывается — авторы видят свои черновики
	api.Handle("/posts", identify(http.HandlerFunc(postHandler.ListPosts))).Methods("GET")
	api.Handle("/posts/{slug}", identify(http.HandlerFunc(postHandler.GetPost))).Methods("GET")

	api.HandleFunc("/tags", tagHandler.ListTags).Methods("GET")

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth(jwtSecret))

	protected.HandleFunc("/posts", postHandler.CreatePost).Methods("POST")
	protected.HandleFunc("/posts/{slug}", postHandler.UpdatePost).Methods("PUT")
	protected.HandleFunc("/posts/{slug}", postHandler.DeletePost).Methods("DELETE")

	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	protected.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")

	admin := protected.PathPrefix("/users").Subrouter()
	admin.Use(middleware.OnlyRole(models.RoleAdmin))

	admin.HandleFunc("", userHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/invite", userHandler.InviteUser).Methods("POST")
}
