package service

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    float64
	}{
		{"empty", nil, 0},
		{"single", []int{4}, 4},
		{"mixed", []int{5, 4, 3}, 4},
		{"fractional", []int{5, 4}, 4.5},
		{"thirds", []int{1, 2, 2}, 5.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Mean(tt.ratings); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Mean(%v) = %v, want %v", tt.ratings, got, tt.want)
			}
		})
	}
}

func TestRatingService_Recompute(t *testing.T) {
	reviews := newMemReviews()
	avgs := newMemAverages()
	svc := NewRatingService(reviews, avgs, nil)
	ctx := context.Background()

	for i, rating := range []int{5, 3, 4} {
		if err := reviews.Create(ctx, newReview(int64(i+1), 7, rating)); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.Recompute(ctx, 7)
	if err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if got != 4 || avgs.get(7) != 4 {
		t.Errorf("average = %v (stored %v), want 4", got, avgs.get(7))
	}
}

func TestRatingService_RecomputeStoreError(t *testing.T) {
	avgs := newMemAverages()
	avgs.err = errors.New("db down")
	svc := NewRatingService(newMemReviews(), avgs, nil)

	if _, err := svc.Recompute(context.Background(), 1); err == nil {
		t.Fatal("expected error from sink")
	}
}
