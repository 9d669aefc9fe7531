// internal/core/domain/business_test.go
package domain

import (
	"testing"

	"hermesx/internal/testutil"
)

func TestHasWebsite(t *testing.T) {
	cases := []struct {
		website string
		want    bool
	}{
		{"https://acme.com", true},
		{"", false},
		{"   ", false},
		{"\t\n", false},
	}
	for _, tc := range cases {
		b := &Business{Website: tc.website}
		testutil.AssertEqual(t, b.HasWebsite(), tc.want, "HasWebsite "+tc.website)
	}
}

func TestMarkFoundIsWriteOnce(t *testing.T) {
	b := &Business{Name: "Acme", Website: "https://acme.com"}

	b.MarkFound("info@acme.com", MethodTier1Regex)
	testutil.AssertEqual(t, b.Email, "info@acme.com", "email stamped")
	testutil.AssertEqual(t, b.Status, StatusTier1Success, "status stamped")
	testutil.AssertEqual(t, b.Method, MethodTier1Regex, "method stamped")
	testutil.AssertFalse(t, b.EnrichedAt.IsZero(), "timestamp stamped")

	b.MarkFound("other@acme.com", MethodTier2Dom)
	testutil.AssertEqual(t, b.Email, "info@acme.com", "second stamp ignored")
	testutil.AssertEqual(t, b.Status, StatusTier1Success, "status unchanged")

	b.MarkFailed()
	testutil.AssertEqual(t, b.Status, StatusTier1Success, "failure cannot overwrite success")
}

func TestMarkFailedIsWriteOnce(t *testing.T) {
	b := &Business{Name: "Acme", Website: "https://acme.com"}

	b.MarkFailed()
	testutil.AssertEqual(t, b.Status, StatusFailed, "failed stamped")

	b.MarkFound("info@acme.com", MethodTier1Regex)
	testutil.AssertEqual(t, b.Status, StatusFailed, "success cannot overwrite failure")
	testutil.AssertEqual(t, b.Email, "", "no email after terminal failure")
}

func TestMarkNoWebsite(t *testing.T) {
	b := &Business{Name: "Siteless"}
	b.MarkNoWebsite()
	testutil.AssertEqual(t, b.Status, StatusNoWebsite, "no_website stamped")
	testutil.AssertTrue(t, b.EnrichedAt.IsZero(), "no timestamp without processing")
}

func TestOrigin(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"https://acme.com/contact?x=1", "https://acme.com"},
		{"http://acme.com:8080/about", "http://acme.com:8080"},
		{"https://sub.acme.com", "https://sub.acme.com"},
		{"acme.com", ""},
		{"", ""},
		{"://bad", ""},
	}
	for _, tc := range cases {
		testutil.AssertEqual(t, Origin(tc.raw), tc.want, "Origin "+tc.raw)
	}
}
