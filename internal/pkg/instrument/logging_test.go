package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestHandlerMasksAndStampsCorrelation(t *testing.T) {
	// Arrange
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, &Config{
		ServiceName: "codelens",
		LogLevel:    "debug",
		MaskFields:  []string{"password", " OTP_Code ", ""},
	}, nil))
	ctx := SetCorrelationID(context.Background(), "cid-1")

	// Act
	logger.InfoContext(ctx, "request",
		"password", "hunter2",
		"body", `{"action":"verify_otp","otp_code":"123456","phone_number":"+14155550100"}`,
	)

	// Assert
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("unmarshal log line: %v (%s)", err, buf.String())
	}
	if line["password"] != masked {
		t.Fatalf("password = %v, want masked", line["password"])
	}
	body, _ := line["body"].(string)
	if strings.Contains(body, "123456") || !strings.Contains(body, "+14155550100") {
		t.Fatalf("body not masked as expected: %s", body)
	}
	if line["_cID"] != "cid-1" || line["service"] != "codelens" {
		t.Fatalf("context attrs missing: %v", line)
	}
	if _, ok := line["severity"]; !ok {
		t.Fatalf("severity key missing: %v", line)
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("warn") != slog.LevelWarn {
		t.Fatalf("parseLevel(warn) mismatch")
	}
	if parseLevel("chatty") != slog.LevelInfo {
		t.Fatalf("parseLevel(chatty) should fall back to info")
	}
}

func TestNewDisabledIsNoop(t *testing.T) {
	inst, err := New(context.Background(), &Config{ServiceName: "codelens"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := inst.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}
