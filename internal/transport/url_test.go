package transport

import "testing"

func TestDeriveURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		want    string
		wantErr bool
	}{
		{name: "http maps to ws", base: "http://engine:8188", want: "ws://engine:8188/ws/progress"},
		{name: "https maps to wss", base: "https://engine.example.com", want: "wss://engine.example.com/ws/progress"},
		{name: "ws passthrough", base: "ws://engine:8188", want: "ws://engine:8188/ws/progress"},
		{name: "base path preserved", base: "http://engine:8188/api/v1/", want: "ws://engine:8188/api/v1/ws/progress"},
		{name: "query stripped", base: "http://engine:8188?token=x", want: "ws://engine:8188/ws/progress"},
		{name: "unsupported scheme", base: "ftp://engine", wantErr: true},
		{name: "missing host", base: "http://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DeriveURL(tt.base)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DeriveURL(%q) succeeded with %q, want error", tt.base, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeriveURL(%q): %v", tt.base, err)
			}
			if got != tt.want {
				t.Fatalf("DeriveURL(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}
