package entity

import (
	"errors"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://example.com/image.png", wantErr: false},
		{name: "valid http URL", url: "http://example.com/image.png", wantErr: false},
		{name: "valid URL with port", url: "https://example.com:8080/a.jpg", wantErr: false},
		{name: "valid URL with query", url: "https://cdn.example.com/a.jpg?w=640", wantErr: false},
		{name: "empty URL", url: "", wantErr: true},
		{name: "invalid scheme - ftp", url: "ftp://example.com/a.jpg", wantErr: true},
		{name: "invalid scheme - javascript", url: "javascript:alert(1)", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "malformed URL", url: "ht!tp://example.com", wantErr: true},
		{name: "no scheme", url: "example.com", wantErr: true},
		{name: "URL exceeding maximum length", url: "https://example.com/" + strings.Repeat("a", 2050), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPURL("image_url", tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHTTPURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ve *ValidationError
				if !errors.As(err, &ve) {
					t.Errorf("expected ValidationError, got %T", err)
				} else if ve.Field != "image_url" {
					t.Errorf("field = %q, want image_url", ve.Field)
				}
			}
		})
	}
}

func TestValidateURL_BlocksPrivateNetworks(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{name: "127.0.0.1 URL (loopback)", url: "http://127.0.0.1/feed"},
		{name: "private IP 10.x.x.x", url: "http://10.0.0.1/feed"},
		{name: "private IP 192.168.x.x", url: "http://192.168.1.1/feed"},
		{name: "private IP 172.16.x.x", url: "http://172.16.0.1/feed"},
		{name: "link-local 169.254.x.x (cloud metadata)", url: "http://169.254.169.254/latest/meta-data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "url cannot point to private network", ve.Message)
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip        string
		isPrivate bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"169.254.169.254", true},
		{"fe80::1", true},
		{"10.123.45.67", true},
		{"172.20.10.5", true},
		{"192.168.255.255", true},
		{"8.8.8.8", false},
		{"2001:4860:4860::8888", false},
		{"172.32.0.0", false},
		{"192.169.0.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			if ip == nil {
				t.Fatalf("failed to parse IP: %s", tt.ip)
			}
			if got := isPrivateIP(ip); got != tt.isPrivate {
				t.Errorf("isPrivateIP(%s) = %v, want %v", tt.ip, got, tt.isPrivate)
			}
		})
	}
}

func TestNormalizeSocialLink(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string // empty means nil
	}{
		{name: "x.com post", raw: "https://x.com/newsroom/status/1", want: "https://x.com/newsroom/status/1"},
		{name: "www subdomain", raw: "https://www.youtube.com/watch?v=abc", want: "https://www.youtube.com/watch?v=abc"},
		{name: "surrounding whitespace trimmed", raw: "  https://bsky.app/profile/a  ", want: "https://bsky.app/profile/a"},
		{name: "uppercase host", raw: "https://Twitter.COM/a", want: "https://Twitter.COM/a"},
		{name: "unknown host", raw: "https://example.com/post", want: ""},
		{name: "lookalike host", raw: "https://notx.com/post", want: ""},
		{name: "non http scheme", raw: "ftp://twitter.com/a", want: ""},
		{name: "garbage", raw: "not a url", want: ""},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSocialLink(tt.raw)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestSplitTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{"go", []string{"go"}},
		{"go, news ,live", []string{"go", "news", "live"}},
		{"go,,  ,news", []string{"go", "news"}},
		{"Go,news,go", []string{"Go", "news"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitTags(tt.raw))
		})
	}
}

func TestJoinTags_RoundTripsOrder(t *testing.T) {
	tags := []string{"election", "world", "breaking"}
	assert.Equal(t, "election,world,breaking", JoinTags(tags))
	assert.Equal(t, tags, SplitTags(JoinTags(tags)))
}
