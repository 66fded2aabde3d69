package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTemplateParsesAfterStripping(t *testing.T) {
	var raw map[string]any
	if err := json.Unmarshal(stripLineComments([]byte(configTemplate)), &raw); err != nil {
		t.Fatalf("template is not valid JSON after stripping comments: %v", err)
	}
	for _, key := range []string{"backend", "sql", "api", "session", "server", "log"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("template is missing %q", key)
		}
	}
}

func TestStripLineComments(t *testing.T) {
	in := "// header\n{\n  // note\n  \"a\": \"http://x\"\n}\n"
	got := string(stripLineComments([]byte(in)))
	if strings.Contains(got, "note") || strings.Contains(got, "header") {
		t.Errorf("comments survived: %q", got)
	}
	if !strings.Contains(got, `"a": "http://x"`) {
		t.Errorf("value line lost: %q", got)
	}
}

func TestLoadWritesDefaultOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")
	t.Setenv("PONTO_USER_ID", "ana")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config not written: %v", err)
	}
	if cfg.Backend != BackendFile || cfg.Session.Store != SessionFile {
		t.Errorf("backend = %q store = %q", cfg.Backend, cfg.Session.Store)
	}
	if cfg.DataDir != filepath.Dir(path) {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.SQL.DSN != filepath.Join(cfg.DataDir, "ponto.db") {
		t.Errorf("DSN = %q", cfg.SQL.DSN)
	}
	if cfg.API.Timeout().Seconds() != 15 {
		t.Errorf("timeout = %v", cfg.API.Timeout())
	}
	if cfg.SessionID == "" || !strings.HasSuffix(cfg.SessionID, ":ana") {
		t.Errorf("SessionID = %q", cfg.SessionID)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := "// mine\n{\n  \"user_id\": \"bia\",\n  \"server\": {\"addr\": \":9090\"}\n}\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UserID != "bia" || cfg.Server.Addr != ":9090" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Server.AllowOrigins) != 1 || cfg.Server.AllowOrigins[0] != "*" {
		t.Errorf("AllowOrigins = %v", cfg.Server.AllowOrigins)
	}
	if cfg.Log.Level != "warn" || cfg.Log.MaxSizeMB != 100 {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"user_id": "ana", "backend": "file"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PONTO_BACKEND", "sql")
	t.Setenv("PONTO_SQL_DRIVER", "postgres")
	t.Setenv("PONTO_SQL_DSN", "host=db user=ponto")
	t.Setenv("PONTO_SESSION_STORE", "redis")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Backend != BackendSQL || cfg.SQL.Driver != "postgres" || cfg.SQL.DSN != "host=db user=ponto" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Session.Store != SessionRedis {
		t.Errorf("session store = %q", cfg.Session.Store)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid json", `{"user_id": }`, "parsing config file"},
		{"unknown backend", `{"user_id": "ana", "backend": "ftp"}`, "unknown backend"},
		{"http without url", `{"user_id": "ana", "backend": "http"}`, "api.base_url"},
		{"unknown session store", `{"user_id": "ana", "session": {"store": "disk"}}`, "unknown session.store"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.data), 0o600); err != nil {
				t.Fatal(err)
			}
			_, err := LoadFrom(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestFilePathHonoursEnv(t *testing.T) {
	t.Setenv("PONTO_CONFIG", "/tmp/elsewhere.json")
	got, err := FilePath()
	if err != nil {
		t.Fatal(err)
	}
	if got != "/tmp/elsewhere.json" {
		t.Errorf("FilePath = %q", got)
	}
}
