package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeUnavailable, cause, "order service unreachable")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if err.Code() != CodeUnavailable {
		t.Fatalf("unexpected code: %s", err.Code())
	}
}

func TestAsThroughWrappedChain(t *testing.T) {
	inner := New(CodeNotFound, "order missing")
	outer := fmt.Errorf("loading order: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error through fmt wrap")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
	if !IsCode(outer, CodeNotFound) {
		t.Fatal("IsCode should match through chain")
	}
}

func TestMetadataForUnknownCode(t *testing.T) {
	meta := MetadataFor(Code("MADE_UP"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes should map to internal, got %d", meta.HTTPStatus)
	}
}

func TestMetadataRetryableOnlyForUnavailable(t *testing.T) {
	for code, meta := range metadataByCode {
		if meta.Retryable && code != CodeUnavailable {
			t.Fatalf("code %s should not be retryable", code)
		}
	}
}

func TestNilErrorAccessors(t *testing.T) {
	var e *Error
	if e.Code() != CodeInternal {
		t.Fatal("nil error should read as internal")
	}
	if e.Error() != "" {
		t.Fatal("nil error string should be empty")
	}
}
