package model

import (
	"time"

	"github.com/lib/pq"
)

// BoxOffice 票房信息
type BoxOffice struct {
	Budget         float64 `json:"budget,omitempty"`
	OpeningWeekend float64 `json:"openingWeekend,omitempty"`
	Gross          float64 `json:"gross,omitempty"`
	Currency       string  `json:"currency,omitempty"`
}

// Movie 电影模型
// 演员/导演/剧组以人物 ID 数组保存，数据库层面不做外键约束
type Movie struct {
	ID            int64          `json:"id" gorm:"primaryKey"`
	Title         string         `json:"title" gorm:"uniqueIndex;not null"`
	Genres        pq.StringArray `json:"genres" gorm:"type:text[]"`
	ActorIDs      pq.Int64Array  `json:"actors" gorm:"type:bigint[]"`
	DirectorIDs   pq.Int64Array  `json:"directors" gorm:"type:bigint[]"`
	CrewIDs       pq.Int64Array  `json:"crew" gorm:"type:bigint[]"`
	ReleaseDate   *time.Time     `json:"releaseDate" gorm:"index"`
	Runtime       int            `json:"runtime"`
	Synopsis      string         `json:"synopsis"`
	PosterURL     string         `json:"posterUrl"`
	AverageRating float64        `json:"averageRating" gorm:"index;default:0;not null"`
	Trivia        pq.StringArray `json:"trivia" gorm:"type:text[]"`
	Goofs         pq.StringArray `json:"goofs" gorm:"type:text[]"`
	Soundtrack    pq.StringArray `json:"soundtrack" gorm:"type:text[]"`
	Awards        pq.StringArray `json:"awards" gorm:"type:text[]"`
	AgeRating     AgeRating      `json:"ageRating" gorm:"type:varchar(8)"`
	BoxOffice     BoxOffice      `json:"boxOffice" gorm:"serializer:json;type:jsonb"`
	Country       string         `json:"country"`
	Language      string         `json:"language"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt" gorm:"index"`
}

func (Movie) TableName() string { return "movies" }

// ReleaseYear 上映年份（未知时为 0）
func (m *Movie) ReleaseYear() int {
	if m.ReleaseDate == nil {
		return 0
	}
	return m.ReleaseDate.Year()
}

// PersonSummary 电影详情中展开的人物摘要
type PersonSummary struct {
	ID   int64      `json:"id"`
	Name string     `json:"name"`
	Type PersonType `json:"type"`
}

// MovieDetail 电影详情（演员/导演展开为人物摘要）
type MovieDetail struct {
	Movie
	Actors    []PersonSummary `json:"actors"`
	Directors []PersonSummary `json:"directors"`
}
