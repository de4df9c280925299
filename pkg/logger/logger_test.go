package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := context.Background()
	ctx = log.WithRequestID(ctx, "req-123")
	ctx = log.WithCustomerID(ctx, "cust-9")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte("\"request_id\"")) {
		t.Fatalf("expected request_id to be preserved; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"customer_id\"")) {
		t.Fatalf("expected customer_id to be preserved; entry=%s", buf.String())
	}
}

func TestLoggerDomainFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithPickerID(context.Background(), "p1")
	ctx = log.WithOrderID(ctx, "order-44")
	log.Info(ctx, "picker scoped")

	if !bytes.Contains(buf.Bytes(), []byte("\"picker_id\":\"p1\"")) {
		t.Fatalf("expected picker_id field; entry=%s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("\"order_id\":\"order-44\"")) {
		t.Fatalf("expected order_id field; entry=%s", buf.String())
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	if lvl := ParseLevel(""); lvl.String() != "info" {
		t.Fatalf("expected default info level, got %v", lvl)
	}
	if lvl := ParseLevel("not-a-level"); lvl.String() != "info" {
		t.Fatalf("invalid level should fall back to info, got %v", lvl)
	}
	if lvl := ParseLevel("WARN"); lvl.String() != "warn" {
		t.Fatalf("expected warn, got %v", lvl)
	}
}
