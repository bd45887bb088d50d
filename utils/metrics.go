package utils

import (
	"sync"
	"time"
)

// Metrics содержит метрики приложения
type Metrics struct {
	mu sync.RWMutex

	// Метрики запросов
	TotalRequests   int64
	FailedRequests  int64
	RequestLatency  time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time

	// Метрики денежных операций
	Deposits          int64
	Withdrawals       int64
	Transfers         int64
	FailedOperations  int64
	RetriedOperations int64
	LastOperationTime time.Time

	// Метрики ошибок
	ErrorCount    int64
	LastErrorTime time.Time
	ErrorTypes    map[string]int64
}

var (
	metrics     *Metrics
	metricsOnce sync.Once
)

// GetMetrics возвращает экземпляр метрик
func GetMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			ErrorTypes: make(map[string]int64),
		}
	})
	return metrics
}

// RecordRequest записывает метрики запроса
func (m *Metrics) RecordRequest(duration time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests++
	m.RequestLatency += duration
	m.AverageLatency = m.RequestLatency / time.Duration(m.TotalRequests)
	m.LastRequestTime = time.Now()

	if err != nil {
		m.FailedRequests++
		m.recordErrorLocked(err)
	}
}

// RecordOperation записывает метрики денежной операции
func (m *Metrics) RecordOperation(operation string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastOperationTime = time.Now()

	if err != nil {
		m.FailedOperations++
		m.recordErrorLocked(err)
		return
	}

	switch operation {
	case "deposit":
		m.Deposits++
	case "withdraw":
		m.Withdrawals++
	case "transfer":
		m.Transfers++
	}
}

// RecordRetry записывает повтор операции после временного конфликта
func (m *Metrics) RecordRetry() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RetriedOperations++
}

// RecordError записывает метрики ошибки
func (m *Metrics) RecordError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordErrorLocked(err)
}

func (m *Metrics) recordErrorLocked(err error) {
	m.ErrorCount++
	m.LastErrorTime = time.Now()

	errorType := "unknown"
	if err != nil {
		errorType = err.Error()
	}

	m.ErrorTypes[errorType]++
}

// GetMetricsSnapshot возвращает снимок текущих метрик
func (m *Metrics) GetMetricsSnapshot() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	errorTypes := make(map[string]int64, len(m.ErrorTypes))
	for k, v := range m.ErrorTypes {
		errorTypes[k] = v
	}

	return map[string]interface{}{
		"total_requests":     m.TotalRequests,
		"failed_requests":    m.FailedRequests,
		"average_latency":    m.AverageLatency.String(),
		"deposits":           m.Deposits,
		"withdrawals":        m.Withdrawals,
		"transfers":          m.Transfers,
		"failed_operations":  m.FailedOperations,
		"retried_operations": m.RetriedOperations,
		"error_count":        m.ErrorCount,
		"last_error_time":    m.LastErrorTime,
		"error_types":        errorTypes,
	}
}

// ResetMetrics сбрасывает все метрики
func (m *Metrics) ResetMetrics() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalRequests = 0
	m.FailedRequests = 0
	m.RequestLatency = 0
	m.AverageLatency = 0
	m.Deposits = 0
	m.Withdrawals = 0
	m.Transfers = 0
	m.FailedOperations = 0
	m.RetriedOperations = 0
	m.ErrorCount = 0
	m.ErrorTypes = make(map[string]int64)
}
