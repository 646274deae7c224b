package services

import (
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"tenantdesk/internal/config"
)

func TestShareLinkRoundTrip(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	svc := NewShareService(config.Config{BaseURL: "http://localhost:8080", ShareSecret: "secret", ShareTTL: time.Hour})
	svc.now = func() time.Time { return now }

	link, expiresAt := svc.Generate("abc")
	if !strings.HasPrefix(link, "http://localhost:8080/pdf/abc?") {
		t.Fatalf("unexpected link %q", link)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected expiry %v", expiresAt)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	exp, _ := strconv.ParseInt(u.Query().Get("exp"), 10, 64)
	sig := u.Query().Get("sig")

	if !svc.Validate(u.Path, exp, sig) {
		t.Fatalf("signature should validate")
	}
	if svc.Validate("/pdf/other", exp, sig) {
		t.Fatalf("signature must be bound to the path")
	}
	if svc.Validate(u.Path, exp+1, sig) {
		t.Fatalf("signature must be bound to the expiry")
	}
	if svc.Expired(exp) {
		t.Fatalf("fresh link should not be expired")
	}

	svc.now = func() time.Time { return now.Add(2 * time.Hour) }
	if !svc.Expired(exp) {
		t.Fatalf("link should expire after the ttl")
	}
}
