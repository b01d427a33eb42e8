package errdef

import (
	"errors"
	"os"
	"testing"
)

func TestWrapPreservesChain(t *testing.T) {
	err := Wrap(CodeFilesystem, os.ErrNotExist, "read profile")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped error to match os.ErrNotExist")
	}
	if CodeOf(err) != CodeFilesystem {
		t.Fatalf("expected code %q, got %q", CodeFilesystem, CodeOf(err))
	}
	if got := err.Error(); got != "read profile: file does not exist" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if err := Wrap(CodeStorage, nil, "ignored"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if CodeOf(errors.New("boom")) != CodeUnknown {
		t.Fatalf("plain errors should report CodeUnknown")
	}
}

func TestNewFormatsMessage(t *testing.T) {
	err := New(CodeLaunch, "binary %q not found", "gemini")
	if Message(err) != `binary "gemini" not found` {
		t.Fatalf("unexpected message %q", Message(err))
	}
}
