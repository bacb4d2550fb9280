package service

import (
	"math"

	"github.com/user/cinelog/internal/model"
)

// 推荐理由类型
const (
	ReasonDirector = "director"
	ReasonActor    = "actor"
	ReasonGenre    = "genre"
)

// SimilarMovie 带推荐理由的相似电影
type SimilarMovie struct {
	model.Movie
	ReasonType   string   `json:"reasonType"`
	SharedGenres []string `json:"sharedGenres,omitempty"`
	Similarity   float64  `json:"similarity"`
}

// overlap 两个集合的交集及其占较大集合的比例
func overlap[T comparable](source, target []T) (float64, []T) {
	set := make(map[T]struct{}, len(target))
	for _, v := range target {
		set[v] = struct{}{}
	}

	common := []T{}
	for _, v := range source {
		if _, ok := set[v]; ok {
			common = append(common, v)
			delete(set, v)
		}
	}

	maxLen := math.Max(float64(len(source)), float64(len(target)))
	if maxLen == 0 {
		return 0, common
	}
	return float64(len(common)) / maxLen, common
}

// ratingSimilarity 评分越接近越相似（0-5 分制）
func ratingSimilarity(a, b float64) float64 {
	return math.Max(0, 1-math.Abs(a-b)/5.0)
}

// eraSimilarity 上映年份越接近越相似
func eraSimilarity(a, b int) float64 {
	if a == 0 || b == 0 {
		return 0.5
	}

	diff := math.Abs(float64(a - b))
	switch {
	case diff <= 1:
		return 1.0
	case diff <= 3:
		return 0.8
	case diff <= 5:
		return 0.6
	case diff <= 10:
		return 0.4
	default:
		return 0.2
	}
}

// ExplainSimilar 计算综合相似度并给出主要理由
// 优先级：同导演 > 同演员 > 类型重合
func ExplainSimilar(source, target model.Movie) SimilarMovie {
	genreSim, commonGenres := overlap([]string(source.Genres), []string(target.Genres))
	directorSim, commonDirectors := overlap([]int64(source.DirectorIDs), []int64(target.DirectorIDs))
	actorSim, commonActors := overlap([]int64(source.ActorIDs), []int64(target.ActorIDs))

	score := genreSim*0.4 +
		directorSim*0.25 +
		actorSim*0.2 +
		ratingSimilarity(source.AverageRating, target.AverageRating)*0.1 +
		eraSimilarity(source.ReleaseYear(), target.ReleaseYear())*0.05

	out := SimilarMovie{
		Movie:        target,
		SharedGenres: commonGenres,
		Similarity:   math.Round(score*1000) / 1000,
	}

	switch {
	case len(commonDirectors) > 0:
		out.ReasonType = ReasonDirector
	case len(commonActors) > 0:
		out.ReasonType = ReasonActor
	default:
		out.ReasonType = ReasonGenre
	}
	return out
}
