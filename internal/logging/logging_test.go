package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			yaml: "",
			want: DefaultConfig(),
		},
		{
			name: "full",
			yaml: `
log:
  level: debug
  format: json
  output: [stdout, /var/log/socksd.log]
  rotation:
    maxSize: 10
    maxBackups: 3
    maxAge: 7
    compress: true
`,
			want: Config{
				Level:    "debug",
				Format:   "json",
				Output:   []string{"stdout", "/var/log/socksd.log"},
				Rotation: Rotation{MaxSize: 10, MaxBackups: 3, MaxAge: 7, Compress: true},
			},
		},
		{
			name:    "malformed",
			yaml:    "log: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseConfig([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got.Level != tt.want.Level || got.Format != tt.want.Format || got.Rotation != tt.want.Rotation ||
				strings.Join(got.Output, ",") != strings.Join(tt.want.Output, ",") {
				t.Fatalf("got %+v want %+v", got, tt.want)
			}
		})
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "socksd.log")

	log, err := New(Config{Level: "info", Format: "json", Output: []string{path}})
	if err != nil {
		t.Fatal(err)
	}
	log.Info("listening")
	log.Debug("filtered")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"msg":"listening"`) {
		t.Fatalf("expected info line in %q", data)
	}
	if strings.Contains(string(data), "filtered") {
		t.Fatalf("debug line leaked at info level: %q", data)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Fatal("expected level error")
	}
	if _, err := New(Config{Level: "info", Format: "xml"}); err == nil {
		t.Fatal("expected format error")
	}
}
