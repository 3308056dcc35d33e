package session

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestRegistryLookup(t *testing.T) {
	stub := func(ctx context.Context, opts Options) (Session, error) { return nil, nil }

	t.Run("registered type resolves", func(t *testing.T) {
		r := NewRegistry()
		r.Register("cisco_ios", stub)

		f, err := r.Lookup("cisco_ios")
		if err != nil {
			t.Fatalf("Lookup() error = %v", err)
		}
		if f == nil {
			t.Fatal("Lookup() returned nil factory")
		}
	})

	t.Run("unknown type names supported types", func(t *testing.T) {
		r := NewRegistry()
		r.Register("cisco_ios", stub)
		r.Register("extreme_exos", stub)

		_, err := r.Lookup("juniper_junos")
		if err == nil {
			t.Fatal("Lookup() expected error for unknown type")
		}
		if !strings.Contains(err.Error(), "cisco_ios") || !strings.Contains(err.Error(), "extreme_exos") {
			t.Errorf("error should list supported types, got: %v", err)
		}
	})

	t.Run("default registry supports cisco_ios", func(t *testing.T) {
		r := DefaultRegistry()
		if _, err := r.Lookup(DeviceTypeCiscoIOS); err != nil {
			t.Errorf("Lookup(%q) error = %v", DeviceTypeCiscoIOS, err)
		}
	})
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Host: "10.0.0.1", Username: "admin", Password: "pw"}.applyDefaults()

	if opts.Port != 22 {
		t.Errorf("Port = %d, want 22", opts.Port)
	}
	if opts.Secret != "pw" {
		t.Errorf("Secret should fall back to password, got %q", opts.Secret)
	}
	if opts.ConnectTimeout != 10*time.Second {
		t.Errorf("ConnectTimeout = %v, want 10s", opts.ConnectTimeout)
	}
	if opts.CommandTimeout != 30*time.Second {
		t.Errorf("CommandTimeout = %v, want 30s", opts.CommandTimeout)
	}

	explicit := Options{Host: "h", Password: "pw", Secret: "enable-pw", Port: 2222}.applyDefaults()
	if explicit.Secret != "enable-pw" {
		t.Errorf("explicit secret overridden: %q", explicit.Secret)
	}
	if explicit.Port != 2222 {
		t.Errorf("explicit port overridden: %d", explicit.Port)
	}
}

func TestEndsAtPrompt(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want bool
	}{
		{"exec prompt", "show version\r\noutput\r\nswitch01>", true},
		{"enable prompt", "output\r\nswitch01#", true},
		{"prompt with trailing space", "output\r\nswitch01# ", true},
		{"config prompt", "output\r\nswitch01(config)#", true},
		{"mid output", "Device ID: R1\r\nPlatform: cisco,", false},
		{"output ends with newline", "switch01#\r\n", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := endsAtPrompt(tt.out); got != tt.want {
				t.Errorf("endsAtPrompt(%q) = %v, want %v", tt.out, got, tt.want)
			}
		})
	}
}

func TestStripTerminator(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{"switch01#", "switch01"},
		{"switch01>", "switch01"},
		{"switch01# ", "switch01"},
		{"very-long-hostname(config)#", "very-long-hostname"},
		{"switch01", "switch01"},
	}

	for _, tt := range tests {
		if got := stripTerminator(tt.prompt); got != tt.want {
			t.Errorf("stripTerminator(%q) = %q, want %q", tt.prompt, got, tt.want)
		}
	}
}

func TestTruncatePrompt(t *testing.T) {
	if got := truncatePrompt("core-switch-building-7"); got != "core-switch-buil" {
		t.Errorf("truncatePrompt() = %q, want first 16 chars", got)
	}
	if got := truncatePrompt("sw01"); got != "sw01" {
		t.Errorf("short prompt should be untouched, got %q", got)
	}
}

func TestStripEcho(t *testing.T) {
	raw := "show cdp neighbors detail\r\nDevice ID: R1\r\nPlatform: cisco 2811,\r\nswitch01#"
	got := stripEcho(raw, "show cdp neighbors detail")
	want := "Device ID: R1\nPlatform: cisco 2811,"
	if got != want {
		t.Errorf("stripEcho() = %q, want %q", got, want)
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		out  string
		want string
	}{
		{"a\r\nb\r\nc", "c"},
		{"a\r\nb\r\n", "b"},
		{"single", "single"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := lastLine(tt.out); got != tt.want {
			t.Errorf("lastLine(%q) = %q, want %q", tt.out, got, tt.want)
		}
	}
}
