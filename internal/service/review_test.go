package service

import (
	"context"
	"testing"

	"github.com/user/cinelog/internal/model"
	"github.com/user/cinelog/internal/utils"
)

func newReview(userID, movieID int64, rating int) *model.Review {
	return &model.Review{UserID: userID, MovieID: movieID, Rating: rating}
}

func newReviewService() (*ReviewService, *memAverages) {
	reviews := newMemReviews()
	avgs := newMemAverages()
	svc := NewReviewService(reviews, memRefs{1: true, 2: true}, NewRatingService(reviews, avgs, nil))
	return svc, avgs
}

func TestReviewService_AverageFollowsWrites(t *testing.T) {
	svc, avgs := newReviewService()
	ctx := context.Background()

	r1, err := svc.Create(ctx, 10, 1, 5, "great")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, 11, 1, 2, "meh"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := avgs.get(1); got != 3.5 {
		t.Errorf("after creates average = %v, want 3.5", got)
	}

	r1.Rating = 4
	if err := svc.Update(ctx, r1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := avgs.get(1); got != 3 {
		t.Errorf("after update average = %v, want 3", got)
	}

	if err := svc.Delete(ctx, r1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := avgs.get(1); got != 2 {
		t.Errorf("after delete average = %v, want 2", got)
	}
}

func TestReviewService_DuplicateIsConflict(t *testing.T) {
	svc, avgs := newReviewService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, 10, 2, 4, ""); err != nil {
		t.Fatalf("first review: %v", err)
	}

	_, err := svc.Create(ctx, 10, 2, 1, "again")
	if !utils.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "You have already reviewed this movie" {
		t.Errorf("message = %q", err.Error())
	}
	if utils.KindOf(err).Status() != 400 {
		t.Errorf("conflict should map to 400")
	}
	if got := avgs.get(2); got != 4 {
		t.Errorf("average = %v, duplicate must not change it", got)
	}
}

func TestReviewService_UnknownMovie(t *testing.T) {
	svc, _ := newReviewService()

	_, err := svc.Create(context.Background(), 10, 99, 3, "")
	if !utils.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReviewService_GetMissing(t *testing.T) {
	svc, _ := newReviewService()

	if _, err := svc.Get(context.Background(), 42); !utils.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
