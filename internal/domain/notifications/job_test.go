package notifications

import (
	"slices"
	"testing"
)

func TestJob_Recipients_Dedupe(t *testing.T) {
	j := Job{
		DirectEmails: []string{"u1@x.com", " ", "U2@x.com"},
		GroupEmails: []GroupEmails{
			{GroupID: "g1", Emails: []string{"u2@x.com", "u3@x.com"}},
			{GroupID: "g2", Emails: []string{"u1@x.com", "", "u3@x.com"}},
		},
	}

	got := j.Recipients()
	want := []string{"u1@x.com", "U2@x.com", "u3@x.com"}
	if !slices.Equal(got, want) {
		t.Fatalf("Recipients() = %v, want %v", got, want)
	}
}

func TestJob_Recipients_Empty(t *testing.T) {
	if got := (Job{}).Recipients(); len(got) != 0 {
		t.Fatalf("expected no recipients, got %v", got)
	}
}
