package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("row not found")
	err := Wrap(CodeNotFound, cause, "profile lookup")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable via errors.Is")
	}
	if err.Code() != CodeNotFound {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if err.Error() != "NOT_FOUND: profile lookup" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestAsFindsTypedErrorThroughChain(t *testing.T) {
	inner := New(CodeStrategyGuard, "tenant mismatch")
	outer := fmt.Errorf("resolving strategy: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodeStrategyGuard {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeStrategyGuard, "guard"))
	if !IsCode(err, CodeStrategyGuard) {
		t.Fatal("expected IsCode to match through wrapping")
	}
	if IsCode(err, CodeNotFound) {
		t.Fatal("expected IsCode to reject other codes")
	}
	if IsCode(nil, CodeStrategyGuard) {
		t.Fatal("expected IsCode to reject nil")
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NO_SUCH_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback metadata, got %d", meta.HTTPStatus)
	}
}

func TestDumpFlattensChain(t *testing.T) {
	cause := stdErrors.New("connection reset")
	err := Wrap(CodeDependency, cause, "sending invitation")

	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
	if dump.TopMessage == "" {
		t.Fatal("expected top message")
	}
}
