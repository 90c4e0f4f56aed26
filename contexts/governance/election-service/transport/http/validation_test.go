package http

import (
	"strings"
	"testing"
)

func TestNormalizeAddress(t *testing.T) {
	const checksummed = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

	for _, raw := range []string{
		checksummed,
		"0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed",
		"  0X5AAEB6053F3E94C9B9A09F33669435E7EF1BEAED ",
	} {
		got, err := NormalizeAddress(raw)
		if err != nil {
			t.Fatalf("normalize %q: %v", raw, err)
		}
		if got != checksummed {
			t.Fatalf("normalize %q: expected %s, got %s", raw, checksummed, got)
		}
	}

	for _, raw := range []string{"", "alice", "0x1234", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"} {
		if _, err := NormalizeAddress(raw); err == nil {
			t.Fatalf("expected %q to be rejected", raw)
		}
	}
}

func TestValidateRequests(t *testing.T) {
	if err := Validate(RegisterVoterRequest{Address: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}); err != nil {
		t.Fatalf("valid voter request rejected: %v", err)
	}
	if err := Validate(RegisterVoterRequest{Address: "bob"}); err == nil {
		t.Fatalf("expected non-hex address to fail validation")
	}
	if err := Validate(CastVoteRequest{}); err == nil {
		t.Fatalf("expected missing proposal_id to fail validation")
	}
	zero := 0
	if err := Validate(CastVoteRequest{ProposalID: &zero}); err != nil {
		t.Fatalf("proposal 0 should be accepted: %v", err)
	}
	negative := -1
	if err := Validate(CastVoteRequest{ProposalID: &negative}); err != nil {
		t.Fatalf("range checks are left to the election rules: %v", err)
	}
	if err := Validate(SubmitProposalRequest{}); err != nil {
		t.Fatalf("empty description is left to the election rules: %v", err)
	}
	if err := Validate(SubmitProposalRequest{Description: strings.Repeat("x", 1001)}); err != nil {
		t.Fatalf("long description rejected: %v", err)
	}
}

func TestNormalizeCaller(t *testing.T) {
	if _, err := NormalizeCaller(""); err != ErrInvalidCaller {
		t.Fatalf("expected ErrInvalidCaller, got %v", err)
	}
	got, err := NormalizeCaller("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	if err != nil || got != "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed" {
		t.Fatalf("unexpected caller normalization: %s %v", got, err)
	}
}
