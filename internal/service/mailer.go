package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Email 一封待发送的邮件
type Email struct {
	ToName    string
	ToAddress string
	Subject   string
	HTML      string
	Text      string
}

// Mailer 邮件发送
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// NewMailer 配置了 API Key 时使用 SendGrid，否则只记日志
func NewMailer(apiKey, fromAddress, fromName string) Mailer {
	if apiKey == "" {
		return NewLogMailer()
	}
	return NewSendGridMailer(apiKey, fromAddress, fromName)
}

// SendGridMailer 通过 SendGrid 发信，外面包一层熔断器
type SendGridMailer struct {
	client  *sendgrid.Client
	from    *mail.Email
	breaker *gobreaker.CircuitBreaker[*rest.Response]
	log     *zap.Logger
}

// NewSendGridMailer 创建 SendGrid 发信器
// 连续失败 5 次后熔断 1 分钟，期间直接返回错误
func NewSendGridMailer(apiKey, fromAddress, fromName string) *SendGridMailer {
	log := zap.L().With(zap.String("component", "mailer"))

	settings := gobreaker.Settings{
		Name:        "sendgrid",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &SendGridMailer{
		client:  sendgrid.NewSendClient(apiKey),
		from:    mail.NewEmail(fromName, fromAddress),
		breaker: gobreaker.NewCircuitBreaker[*rest.Response](settings),
		log:     log,
	}
}

// Send 发送邮件，HTTP 状态码 >= 400 视为失败
func (m *SendGridMailer) Send(ctx context.Context, email Email) error {
	msg := mail.NewSingleEmail(m.from, email.Subject, mail.NewEmail(email.ToName, email.ToAddress), email.Text, email.HTML)

	_, err := m.breaker.Execute(func() (*rest.Response, error) {
		resp, err := m.client.SendWithContext(ctx, msg)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			return resp, fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
		}
		return resp, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("sendgrid unavailable: %w", err)
	}
	return err
}

// LogMailer 未配置 API Key 时使用，只记日志不发信
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer 创建日志发信器
func NewLogMailer() *LogMailer {
	return &LogMailer{log: zap.L().With(zap.String("component", "mailer"))}
}

// Send 记录邮件内容
func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.log.Info("email not sent (no provider configured)",
		zap.String("to", email.ToAddress),
		zap.String("subject", email.Subject),
		zap.Int("text_bytes", len(email.Text)))
	return nil
}

// htmlToText 从渲染好的 HTML 中提取纯文本正文
func htmlToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	doc.Find("h1, p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		if goquery.NodeName(s) == "li" {
			b.WriteString("- ")
		}
		b.WriteString(text)
		b.WriteString("\n")
	})
	return b.String(), nil
}
