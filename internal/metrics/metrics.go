// Package metrics 定义服务暴露的 Prometheus 指标
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal 按方法、路由模板与状态码统计请求数
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// NotificationEmailsTotal 上映提醒邮件发送结果
	NotificationEmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emails_total",
			Help: "Total number of release reminder emails by result",
		},
		[]string{"result"},
	)

	// RatingRecomputesTotal 平均分重算次数
	RatingRecomputesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movie_rating_recomputes_total",
			Help: "Total number of movie average rating recomputations",
		},
	)
)

// 邮件发送结果
const (
	EmailSent    = "sent"
	EmailFailed  = "failed"
	EmailSkipped = "skipped"
)

// RecordRequest 记录一次 HTTP 请求
func RecordRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordEmail 记录一封提醒邮件的结果
func RecordEmail(result string) {
	NotificationEmailsTotal.WithLabelValues(result).Inc()
}

// RecordRatingRecompute 记录一次平均分重算
func RecordRatingRecompute() {
	RatingRecomputesTotal.Inc()
}
