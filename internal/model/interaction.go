package model

import (
	"time"

	"github.com/lib/pq"
)

// Review 影评，同一用户对同一电影只能评一次
type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user" gorm:"uniqueIndex:idx_review_user_movie;not null"`
	MovieID   int64     `json:"movie" gorm:"uniqueIndex:idx_review_user_movie;index;not null"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Review) TableName() string { return "reviews" }

// Comment 讨论下的评论（内嵌在讨论文档中）
type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	AuthorID  int64     `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// Discussion 讨论帖
type Discussion struct {
	ID        int64         `json:"id" gorm:"primaryKey"`
	Title     string        `json:"title" gorm:"not null"`
	Content   string        `json:"content" gorm:"not null"`
	Category  string        `json:"category" gorm:"type:varchar(32);index;not null"`
	MovieIDs  pq.Int64Array `json:"movies" gorm:"type:bigint[]"`
	CreatorID int64         `json:"creator" gorm:"index;not null"`
	Comments  []Comment     `json:"comments" gorm:"serializer:json;type:jsonb"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (Discussion) TableName() string { return "discussions" }

// FindComment 按 ID 查找评论
func (d *Discussion) FindComment(id string) (*Comment, bool) {
	for i := range d.Comments {
		if d.Comments[i].ID == id {
			return &d.Comments[i], true
		}
	}
	return nil, false
}

// CustomList 用户自定义片单，名称在同一用户下唯一
type CustomList struct {
	ID          int64         `json:"id" gorm:"primaryKey"`
	UserID      int64         `json:"user" gorm:"uniqueIndex:idx_list_user_name;not null"`
	Name        string        `json:"name" gorm:"uniqueIndex:idx_list_user_name;not null"`
	Description string        `json:"description"`
	MovieIDs    pq.Int64Array `json:"movies" gorm:"type:bigint[]"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

func (CustomList) TableName() string { return "custom_lists" }

// News 新闻
type News struct {
	ID          int64         `json:"id" gorm:"primaryKey"`
	Title       string        `json:"title" gorm:"not null"`
	Description string        `json:"description"`
	Content     string        `json:"content" gorm:"not null"`
	Category    string        `json:"category" gorm:"type:varchar(32);index;not null"`
	MovieIDs    pq.Int64Array `json:"relatedMovies" gorm:"type:bigint[]"`
	PersonIDs   pq.Int64Array `json:"relatedPersons" gorm:"type:bigint[]"`
	PublishDate time.Time     `json:"publishDate" gorm:"index"`
	CreatedAt   time.Time     `json:"createdAt"`
}

func (News) TableName() string { return "news" }
