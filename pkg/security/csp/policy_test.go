package csp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_Build(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		want   string
	}{
		{"empty", Policy{}, ""},
		{"api", APIPolicy(), "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"},
		{
			name:   "replace keeps position",
			policy: APIPolicy().With("default-src", "'self'"),
			want:   "default-src 'self'; frame-ancestors 'none'; base-uri 'none'",
		},
		{
			name:   "bare directive",
			policy: Policy{}.With("upgrade-insecure-requests"),
			want:   "upgrade-insecure-requests",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.policy.Build())
		})
	}
}

func TestPolicy_CopiesOnWrite(t *testing.T) {
	base := SwaggerUIPolicy()
	reporting := base.ReportOnly(true).With("img-src", "*")

	assert.Equal(t, HeaderEnforce, base.HeaderName())
	assert.Equal(t, HeaderReportOnly, reporting.HeaderName())
	assert.Contains(t, base.Build(), "img-src 'self' data:")
	assert.Contains(t, reporting.Build(), "img-src *")
}
