package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestRedactMasksCredentialWords(t *testing.T) {
	got := Redact("upstream said: Bearer sk-abc123 token expired")
	if strings.Contains(strings.ToLower(got), "token") {
		t.Fatalf("expected token to be redacted, got %q", got)
	}
	if strings.Contains(got, "sk-abc123") {
		t.Fatalf("expected bearer value to be redacted, got %q", got)
	}
	if utf8.RuneCountInString(got) > 500 {
		t.Fatalf("expected at most 500 chars, got %d", utf8.RuneCountInString(got))
	}
}

func TestRedactCoversAllSensitiveWords(t *testing.T) {
	cases := []string{"api key", "API_KEY", "apikey", "Password", "secrets", "credential", "tokens"}
	for _, word := range cases {
		got := Redact("bad " + word + " here")
		if !strings.Contains(got, redactedMarker) {
			t.Fatalf("expected %q to be redacted, got %q", word, got)
		}
		if strings.Contains(got, word) {
			t.Fatalf("expected %q to be removed, got %q", word, got)
		}
	}
}

func TestRedactKeepsConfigVariableNames(t *testing.T) {
	got := Redact("missing SHOPPING_RAMILEVY_API_KEY, token rejected")
	want := "missing SHOPPING_RAMILEVY_API_KEY, [REDACTED] rejected"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got := Redact("shopping_api_key=abc"); strings.Contains(got, "api_key") {
		t.Fatalf("expected lowercase name to be redacted, got %q", got)
	}
}

func TestRedactTruncates(t *testing.T) {
	got := Redact(strings.Repeat("x", 2000))
	if n := utf8.RuneCountInString(got); n != 500 {
		t.Fatalf("expected 500 chars, got %d", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix")
	}
}

func TestRedactLeavesPlainMessages(t *testing.T) {
	msg := "status 503: service unavailable"
	if got := Redact(msg); got != msg {
		t.Fatalf("expected unchanged message, got %q", got)
	}
}

func TestWrapKeepsCodeAndCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: timeout")
	err := Wrap(CodeUpstream, cause, "search request failed")
	if CodeOf(err) != CodeUpstream {
		t.Fatalf("unexpected code %s", CodeOf(err))
	}
	if err.Unwrap() != cause {
		t.Fatalf("expected cause to be preserved")
	}
	if CodeOf(fmt.Errorf("plain")) != CodeInternal {
		t.Fatalf("expected untyped errors to map to internal")
	}
}

func TestMetadataFor(t *testing.T) {
	if got := MetadataFor(CodeNotImplemented).HTTPStatus; got != http.StatusNotImplemented {
		t.Fatalf("expected 501 got %d", got)
	}
	if got := MetadataFor(Code("unknown")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected fallback to internal, got %d", got)
	}
}

func TestDumpRedactsChain(t *testing.T) {
	err := Wrap(CodeUpstream, fmt.Errorf("invalid token abc"), "cart fetch failed")
	dump := Dump(err)
	for _, entry := range dump.Chain {
		if strings.Contains(entry, "token") {
			t.Fatalf("chain entry leaked credential word: %q", entry)
		}
	}
	if dump.Code != CodeUpstream {
		t.Fatalf("unexpected dump code %s", dump.Code)
	}
}
