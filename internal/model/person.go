package model

import (
	"time"

	"github.com/lib/pq"
)

// FilmographyEntry 作品条目
type FilmographyEntry struct {
	MovieID int64  `json:"movieId"`
	Role    string `json:"role"`
	Year    int    `json:"year,omitempty"`
}

// Person 人物（演员/导演/剧组）
type Person struct {
	ID          int64              `json:"id" gorm:"primaryKey"`
	Name        string             `json:"name" gorm:"index;not null"`
	Type        PersonType         `json:"type" gorm:"type:varchar(16);not null"`
	Biography   string             `json:"biography"`
	BirthDate   *time.Time         `json:"birthDate"`
	Awards      pq.StringArray     `json:"awards" gorm:"type:text[]"`
	Photos      pq.StringArray     `json:"photos" gorm:"type:text[]"`
	Filmography []FilmographyEntry `json:"filmography" gorm:"serializer:json;type:jsonb"`
	SocialLinks map[string]string  `json:"socialLinks" gorm:"serializer:json;type:jsonb"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

func (Person) TableName() string { return "persons" }

// Summary 人物摘要
func (p *Person) Summary() PersonSummary {
	return PersonSummary{ID: p.ID, Name: p.Name, Type: p.Type}
}
