package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/eugenenazirov/orbital-sync/internal/config"
	"github.com/eugenenazirov/orbital-sync/internal/logging"
)

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	t.Cleanup(func() {
		newLogger = logging.New
	})
	newLogger = func(bool) (*zap.Logger, error) {
		return zap.New(core), nil
	}
	return logs
}

func validEnv() config.MapEnvironment {
	return config.MapEnvironment{
		"PRIMARY_HOST_BASE_URL":     "http://10.0.0.2",
		"PRIMARY_HOST_PASSWORD":     "primary-secret",
		"SECONDARY_HOST_1_BASE_URL": "http://10.0.0.3:8080/",
		"SECONDARY_HOST_1_PASSWORD": "secondary-secret",
	}
}

func TestRunCheckLogsSummary(t *testing.T) {
	logs := observeLogs(t)
	var stdout, stderr bytes.Buffer

	if code := run([]string{"check"}, validEnv(), &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}

	entries := logs.FilterMessage("configuration resolved").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	primary, ok := fields["primary"].(map[string]any)
	if !ok || primary["full_url"] != "http://10.0.0.2/admin" {
		t.Fatalf("unexpected primary field: %v", fields["primary"])
	}
	if fields["interval_minutes"] != int64(30) {
		t.Fatalf("unexpected interval field: %v", fields["interval_minutes"])
	}
	for _, entry := range logs.All() {
		for key, value := range entry.ContextMap() {
			if s, ok := value.(string); ok && strings.Contains(s, "secret") {
				t.Fatalf("secret leaked in log field %s", key)
			}
		}
	}
}

func TestRunDefaultsToCheck(t *testing.T) {
	logs := observeLogs(t)
	var stdout, stderr bytes.Buffer

	if code := run(nil, validEnv(), &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if logs.FilterMessage("configuration resolved").Len() != 1 {
		t.Fatalf("expected check to run by default")
	}
}

func TestRunReportsMissingVariable(t *testing.T) {
	logs := observeLogs(t)
	env := validEnv()
	delete(env, "PRIMARY_HOST_BASE_URL")
	var stdout, stderr bytes.Buffer

	if code := run([]string{"check"}, env, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}

	entries := logs.FilterMessage("invalid configuration").All()
	if len(entries) != 1 {
		t.Fatalf("expected one error entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["variable"] != "PRIMARY_HOST_BASE_URL" {
		t.Fatalf("expected missing variable to be logged, got %v", entries[0].ContextMap())
	}
}

func TestRunShowPrintsRedactedYAML(t *testing.T) {
	observeLogs(t)
	var stdout, stderr bytes.Buffer

	if code := run([]string{"show"}, validEnv(), &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	out := stdout.String()
	if !strings.Contains(out, "full_url: http://10.0.0.3:8080/admin") {
		t.Fatalf("expected secondary url in output:\n%s", out)
	}
	if strings.Contains(out, "secret") {
		t.Fatalf("expected secrets to be redacted:\n%s", out)
	}
}

func TestRunReadsEnvFile(t *testing.T) {
	observeLogs(t)
	path := filepath.Join(t.TempDir(), "sync.env")
	content := "SECONDARY_HOST_1_BASE_URL=http://10.0.0.9\nSECONDARY_HOST_1_PASSWORD=file-password\nINTERVAL_MINUTES=10\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	processEnv := config.MapEnvironment{
		"PRIMARY_HOST_BASE_URL": "http://10.0.0.2",
		"PRIMARY_HOST_PASSWORD": "primary-password",
		"INTERVAL_MINUTES":      "15",
	}
	var stdout, stderr bytes.Buffer

	if code := run([]string{"--env-file", path, "show"}, processEnv, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit code 0, got %d (stderr: %s)", code, stderr.String())
	}

	out := stdout.String()
	if !strings.Contains(out, "full_url: http://10.0.0.9/admin") {
		t.Fatalf("expected secondary host from env file:\n%s", out)
	}
	if !strings.Contains(out, "interval_minutes: 15") {
		t.Fatalf("expected process environment to override env file:\n%s", out)
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	observeLogs(t)
	var stdout, stderr bytes.Buffer

	if code := run([]string{"sync"}, validEnv(), &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if stderr.Len() == 0 {
		t.Fatalf("expected parse error on stderr")
	}
}
