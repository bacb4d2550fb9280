package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/movies/:id", "200")
	before := testutil.ToFloat64(c)

	RecordRequest(http.MethodGet, "/api/movies/:id", http.StatusOK, 15*time.Millisecond)

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}

func TestRecordRequest_UnmatchedRoute(t *testing.T) {
	c := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before := testutil.ToFloat64(c)

	RecordRequest(http.MethodGet, "", http.StatusNotFound, time.Millisecond)

	if got := testutil.ToFloat64(c); got != before+1 {
		t.Errorf("counter = %v, want %v", got, before+1)
	}
}

func TestRecordEmailAndRecompute(t *testing.T) {
	sent := testutil.ToFloat64(NotificationEmailsTotal.WithLabelValues(EmailSent))
	RecordEmail(EmailSent)
	if got := testutil.ToFloat64(NotificationEmailsTotal.WithLabelValues(EmailSent)); got != sent+1 {
		t.Errorf("sent = %v, want %v", got, sent+1)
	}

	before := testutil.ToFloat64(RatingRecomputesTotal)
	RecordRatingRecompute()
	if got := testutil.ToFloat64(RatingRecomputesTotal); got != before+1 {
		t.Errorf("recomputes = %v, want %v", got, before+1)
	}
}
