package service

import (
	"context"
	"testing"
)

func TestNewMailer(t *testing.T) {
	if _, ok := NewMailer("", "a@b.com", "Cinelog").(*LogMailer); !ok {
		t.Error("empty api key should fall back to the log mailer")
	}
	if _, ok := NewMailer("SG.key", "a@b.com", "Cinelog").(*SendGridMailer); !ok {
		t.Error("api key should select SendGrid")
	}
}

func TestLogMailer_Send(t *testing.T) {
	if err := NewLogMailer().Send(context.Background(), Email{ToAddress: "a@b.com", Subject: "hi"}); err != nil {
		t.Errorf("log mailer should never fail: %v", err)
	}
}
