package main

import (
	"fmt"
	"log"
	"net/http"

	"bankingProject/config"
	"bankingProject/controllers"
	"bankingProject/database"
	"bankingProject/middleware"
	"bankingProject/services"
	"bankingProject/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/mux"
)

// healthHandler отвечает на проверку работоспособности
func healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// startMetricsServer запускает отдельный сервер метрик на gin
func startMetricsServer(cfg *config.Config) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(middleware.Recovery(), middleware.Logger(), middleware.RateLimit())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetMetrics().GetMetricsSnapshot())
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		log.Printf("Сервер метрик запущен на порту %s", addr)
		if err := engine.Run(addr); err != nil {
			log.Printf("Ошибка сервера метрик: %v", err)
		}
	}()
}

func main() {
	// Инициализируем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Инициализируем подключение к базе данных
	db, err := database.NewDatabase(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer db.Close()

	// Инициализируем сервисы
	emailService := services.NewEmailService(cfg)
	userService := services.NewUserService(db.GetDB(), cfg)
	accountService := services.NewAccountService(db.GetDB(), cfg)
	transactionService := services.NewTransactionService(db.GetDB(), cfg, emailService)
	historyService := services.NewHistoryService(db.GetDB(), cfg)
	statementService := services.NewStatementService(accountService, historyService)

	// Инициализируем контроллеры
	authController := controllers.NewAuthController(userService, emailService, cfg)
	accountController := controllers.NewAccountController(accountService, statementService)
	transactionController := controllers.NewTransactionController(transactionService, historyService)

	// Создаем роутер
	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods("GET")

	// Публичные маршруты для аутентификации
	router.HandleFunc("/api/auth/signUp", authController.SignUp).Methods("POST")
	router.HandleFunc("/api/auth/signIn", authController.SignIn).Methods("POST")

	// Защищенные маршруты
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.AuthMiddleware([]byte(authController.GetJWTKey())))
	protected.Use(middleware.LoggingMiddleware)

	// Маршруты пользователя
	protected.HandleFunc("/users/profile", authController.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/users/password", authController.ChangePassword).Methods("PUT")

	// Маршруты счетов и операций
	accountController.RegisterRoutes(protected)
	transactionController.RegisterRoutes(protected)

	// Запускаем сервер метрик
	startMetricsServer(cfg)

	// Запускаем сервер
	port := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на порту %s", port)
	if err := http.ListenAndServe(port, router); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
