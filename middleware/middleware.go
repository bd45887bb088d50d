package middleware

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"bankingProject/utils"

	"github.com/gin-gonic/gin"
)

var (
	// Глобальный rate limiter
	globalLimiter = utils.NewRateLimiter(100, time.Minute) // 100 запросов в минуту
)

type LoggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *LoggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware логирует информацию о запросе и ответе
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Создаем обертку для ResponseWriter
		lrw := &LoggingResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Обрабатываем запрос
		next.ServeHTTP(lrw, r)

		// Логируем информацию
		duration := time.Since(start)
		log.Printf(
			"Method: %s, Path: %s, Status: %d, Duration: %v",
			r.Method,
			r.URL.Path,
			lrw.statusCode,
			duration,
		)

		// Учитываем запрос в метриках
		var reqErr error
		if lrw.statusCode >= http.StatusInternalServerError {
			reqErr = errors.New("server error")
		}
		utils.GetMetrics().RecordRequest(duration, reqErr)
	})
}

// RateLimit middleware для ограничения частоты запросов
func RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Получаем IP-адрес клиента
		clientIP := c.ClientIP()

		// Проверяем лимит
		if !globalLimiter.Allow(clientIP) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
				"reset": globalLimiter.GetResetTime(clientIP),
			})
			c.Abort()
			return
		}

		// Добавляем заголовки с информацией о лимитах
		c.Header("X-RateLimit-Limit", "100")
		c.Header("X-RateLimit-Remaining", strconv.Itoa(globalLimiter.GetRemaining(clientIP)))
		c.Header("X-RateLimit-Reset", globalLimiter.GetResetTime(clientIP).String())

		c.Next()
	}
}

// Logger middleware для логирования запросов
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Начало запроса
		startTime := time.Now()

		// Обработка запроса
		c.Next()

		// Время выполнения
		duration := time.Since(startTime)

		// Логируем информацию о запросе
		utils.LogInfo("Request: %s %s - Status: %d - Duration: %v",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			duration,
		)

		// Логируем ошибки
		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				utils.LogError("Error: %v", e)
			}
		}
	}
}

// Recovery middleware для обработки паник
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Логируем панику
				utils.LogError("Panic recovered: %v", err)

				// Отправляем ответ клиенту
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}
