package repository

import (
	"fmt"
	"time"

	"github.com/user/cinelog/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
// TranslateError 打开后唯一约束冲突会以 gorm.ErrDuplicatedKey 返回
func InitDB(databaseURL string, debug bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层连接失败: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// AutoMigrate 同步表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Movie{},
		&model.Person{},
		&model.Review{},
		&model.Discussion{},
		&model.CustomList{},
		&model.News{},
	)
}

// Repositories 仓库集合
type Repositories struct {
	DB         *gorm.DB
	User       *UserRepository
	Movie      *MovieRepository
	Person     *PersonRepository
	Review     *ReviewRepository
	Discussion *DiscussionRepository
	CustomList *CustomListRepository
	News       *NewsRepository
	Refs       *RefChecker
	Insights   *InsightsRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:         db,
		User:       NewUserRepository(db),
		Movie:      NewMovieRepository(db),
		Person:     NewPersonRepository(db),
		Review:     NewReviewRepository(db),
		Discussion: NewDiscussionRepository(db),
		CustomList: NewCustomListRepository(db),
		News:       NewNewsRepository(db),
		Refs:       NewRefChecker(db),
		Insights:   NewInsightsRepository(db),
	}
}

// findPage 统计总数并取出一页数据
func findPage(q *gorm.DB, order string, offset, limit int, dest interface{}) (int64, error) {
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}

	err := q.Order(order).Offset(offset).Limit(limit).Find(dest).Error
	return total, err
}

// escapeLike 转义 LIKE 通配符
func escapeLike(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}

func contains(s string) string {
	return "%" + escapeLike(s) + "%"
}
