package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/user/cinelog/internal/metrics"
	"github.com/user/cinelog/internal/model"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// UpcomingMovies 查询窗口内上映的电影
type UpcomingMovies interface {
	ReleasingBetween(ctx context.Context, from, to time.Time) ([]model.Movie, error)
}

// Recipients 开启了提醒的用户
type Recipients interface {
	ListNotifiable(ctx context.Context) ([]model.User, error)
}

// Report 一次批处理的结果
type Report struct {
	WindowStart time.Time `json:"windowStart"`
	WindowEnd   time.Time `json:"windowEnd"`
	Movies      int       `json:"movies"`
	Candidates  int       `json:"candidates"`
	Sent        int       `json:"sent"`
	Skipped     int       `json:"skipped"`
	Failed      int       `json:"failed"`
}

const reminderSubject = "Upcoming releases you might like"

var reminderTemplate = template.Must(template.New("reminder").Parse(`<!DOCTYPE html>
<html>
<body>
<h1>Hi {{.Name}}, these movies are coming soon</h1>
<p>They match your favorite genres or actors and release within the next month.</p>
<ul>
{{- range .Movies}}
<li><strong>{{.Title}}</strong> ({{.Date}}){{if .Genres}} <em>{{.Genres}}</em>{{end}}</li>
{{- end}}
</ul>
<p>You can change your notification preferences in your {{.SiteName}} profile.</p>
</body>
</html>`))

type reminderMovie struct {
	Title  string
	Date   string
	Genres string
}

type reminderData struct {
	Name     string
	SiteName string
	Movies   []reminderMovie
}

// NotificationService 上映提醒
type NotificationService struct {
	movies   UpcomingMovies
	users    Recipients
	mailer   Mailer
	siteName string
	sf       singleflight.Group
	log      *zap.Logger
}

// NewNotificationService 创建提醒服务
func NewNotificationService(movies UpcomingMovies, users Recipients, mailer Mailer, siteName string) *NotificationService {
	return &NotificationService{
		movies:   movies,
		users:    users,
		mailer:   mailer,
		siteName: siteName,
		log:      zap.L().With(zap.String("component", "notification")),
	}
}

// Trigger 手动触发，并发触发只会执行一次
func (s *NotificationService) Trigger(ctx context.Context) (*Report, error) {
	return s.TriggerAt(ctx, time.Now())
}

// TriggerAt 以 now 为窗口起点触发，与进行中的批处理合并
// 批处理由所有等待者共享，不跟随单个调用方的取消
func (s *NotificationService) TriggerAt(ctx context.Context, now time.Time) (*Report, error) {
	runCtx := context.WithoutCancel(ctx)
	v, err, shared := s.sf.Do("release-reminders", func() (interface{}, error) {
		return s.Run(runCtx, now)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.log.Info("joined in-flight notification run")
	}
	return v.(*Report), nil
}

// Run 执行一次批处理
// 1. 取 [now, now+1 月] 内上映的电影
// 2. 取开启了任一提醒的非管理员用户
// 3. 按喜欢的类型或演员筛出相关电影，非空则发信
// 单个用户发送失败只记录，不影响其他用户
func (s *NotificationService) Run(ctx context.Context, now time.Time) (*Report, error) {
	report := &Report{WindowStart: now, WindowEnd: now.AddDate(0, 1, 0)}

	movies, err := s.movies.ReleasingBetween(ctx, report.WindowStart, report.WindowEnd)
	if err != nil {
		return nil, fmt.Errorf("load upcoming movies: %w", err)
	}
	report.Movies = len(movies)

	users, err := s.users.ListNotifiable(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recipients: %w", err)
	}
	report.Candidates = len(users)

	for i := range users {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		user := &users[i]
		relevant := RelevantMovies(user, movies)
		if len(relevant) == 0 {
			report.Skipped++
			metrics.RecordEmail(metrics.EmailSkipped)
			continue
		}

		if err := s.notify(ctx, user, relevant); err != nil {
			report.Failed++
			metrics.RecordEmail(metrics.EmailFailed)
			s.log.Warn("release reminder failed",
				zap.Int64("user_id", user.ID),
				zap.Error(err))
			continue
		}
		report.Sent++
		metrics.RecordEmail(metrics.EmailSent)
	}

	s.log.Info("release reminders finished",
		zap.Int("movies", report.Movies),
		zap.Int("candidates", report.Candidates),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))

	return report, nil
}

func (s *NotificationService) notify(ctx context.Context, user *model.User, movies []model.Movie) error {
	html, err := RenderReminder(user, movies, s.siteName)
	if err != nil {
		return err
	}
	text, err := htmlToText(html)
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, Email{
		ToName:    displayName(user),
		ToAddress: user.Email,
		Subject:   reminderSubject,
		HTML:      html,
		Text:      text,
	})
}

// RelevantMovies 与用户喜欢的类型有交集，或有用户喜欢的演员参演
func RelevantMovies(user *model.User, movies []model.Movie) []model.Movie {
	genres := make(map[string]struct{}, len(user.FavoriteGenres))
	for _, g := range user.FavoriteGenres {
		genres[g] = struct{}{}
	}
	actors := make(map[int64]struct{}, len(user.FavoriteActorIDs))
	for _, id := range user.FavoriteActorIDs {
		actors[id] = struct{}{}
	}

	var out []model.Movie
	for _, m := range movies {
		if sharesGenre(m, genres) || featuresActor(m, actors) {
			out = append(out, m)
		}
	}
	return out
}

func sharesGenre(m model.Movie, genres map[string]struct{}) bool {
	for _, g := range m.Genres {
		if _, ok := genres[g]; ok {
			return true
		}
	}
	return false
}

func featuresActor(m model.Movie, actors map[int64]struct{}) bool {
	for _, id := range m.ActorIDs {
		if _, ok := actors[id]; ok {
			return true
		}
	}
	return false
}

// RenderReminder 渲染提醒邮件 HTML
func RenderReminder(user *model.User, movies []model.Movie, siteName string) (string, error) {
	data := reminderData{Name: displayName(user), SiteName: siteName}
	for _, m := range movies {
		item := reminderMovie{Title: m.Title, Genres: strings.Join(m.Genres, ", ")}
		if m.ReleaseDate != nil {
			item.Date = m.ReleaseDate.Format("Jan 2, 2006")
		}
		data.Movies = append(data.Movies, item)
	}

	var buf bytes.Buffer
	if err := reminderTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func displayName(user *model.User) string {
	if user.Nickname != "" {
		return user.Nickname
	}
	return user.Username
}
