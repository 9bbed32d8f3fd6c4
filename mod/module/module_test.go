package module

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestEscapePath(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		wantEscaped string
		wantErr     bool
	}{
		{
			name:        "simple name",
			path:        "openssl",
			wantEscaped: "openssl",
		},
		{
			name:        "nested path",
			path:        "owner/repo",
			wantEscaped: filepath.Join("owner", "repo"),
		},
		{
			name:    "empty string",
			path:    "",
			wantErr: true,
		},
		{
			name:    "parent escape",
			path:    "../openssl",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			escaped, err := EscapePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("EscapePath() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if escaped != tt.wantEscaped {
				t.Errorf("EscapePath() = %v, want %v", escaped, tt.wantEscaped)
			}
		})
	}
}

func TestEscapePath_Invalid(t *testing.T) {
	if runtime.GOOS != "windows" {
		t.Skip("absolute path test only applies to windows")
	}

	_, err := EscapePath("C:\\absolute\\path")
	if err == nil {
		t.Error("EscapePath() expected error for absolute path on windows")
	}
}

func TestVersionString(t *testing.T) {
	v := Version{Path: "cityhash", Version: "cci.20130801"}
	if got := v.String(); got != "cityhash/cci.20130801" {
		t.Errorf("String() = %q, want %q", got, "cityhash/cci.20130801")
	}
}
