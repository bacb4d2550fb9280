package model

// Role 用户角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 是否为合法角色
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// AgeRating 电影分级
type AgeRating string

const (
	AgeRatingG    AgeRating = "G"
	AgeRatingPG   AgeRating = "PG"
	AgeRatingPG13 AgeRating = "PG-13"
	AgeRatingR    AgeRating = "R"
	AgeRatingNC17 AgeRating = "NC-17"
)

// AgeRatings 所有合法分级
var AgeRatings = []AgeRating{AgeRatingG, AgeRatingPG, AgeRatingPG13, AgeRatingR, AgeRatingNC17}

// PersonType 人物类型
type PersonType string

const (
	PersonActor    PersonType = "actor"
	PersonDirector PersonType = "director"
	PersonCrew     PersonType = "crew"
)

// PersonTypes 所有合法人物类型
var PersonTypes = []PersonType{PersonActor, PersonDirector, PersonCrew}

// DiscussionCategories 讨论分类（封闭枚举）
var DiscussionCategories = []string{"general", "movie", "person", "news", "recommendation", "other"}

// NewsCategories 新闻分类（封闭枚举）
var NewsCategories = []string{"movies", "celebrities", "industry", "awards", "events"}

// IsAgeRating 判断分级是否合法
func IsAgeRating(s string) bool {
	for _, r := range AgeRatings {
		if string(r) == s {
			return true
		}
	}
	return false
}

// IsPersonType 判断人物类型是否合法
func IsPersonType(s string) bool {
	for _, t := range PersonTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// IsDiscussionCategory 判断讨论分类是否合法
func IsDiscussionCategory(s string) bool {
	return inList(DiscussionCategories, s)
}

// IsNewsCategory 判断新闻分类是否合法
func IsNewsCategory(s string) bool {
	return inList(NewsCategories, s)
}

func inList(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
