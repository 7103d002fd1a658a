package middleware

import (
	"net/http"
	"strings"

	"newshub/pkg/config"
	"newshub/pkg/security/csp"
)

type CSPConfig struct {
	Enabled bool
	Default csp.Policy
	// PathPolicies override Default; the longest matching prefix wins.
	PathPolicies map[string]csp.Policy
	ReportOnly   bool
}

// LoadCSPConfig reads CSP_ENABLED and CSP_REPORT_ONLY. The API gets the
// strict policy and /swagger/ the one Swagger UI needs.
func LoadCSPConfig() CSPConfig {
	return CSPConfig{
		Enabled:      config.GetEnvBool("CSP_ENABLED", true),
		Default:      csp.APIPolicy(),
		PathPolicies: map[string]csp.Policy{"/swagger/": csp.SwaggerUIPolicy()},
		ReportOnly:   config.GetEnvBool("CSP_REPORT_ONLY", false),
	}
}

// SecurityHeaders sets the CSP header for the request path together with
// X-Content-Type-Options and Referrer-Policy.
func SecurityHeaders(cfg CSPConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if cfg.Enabled {
				policy := cfg.policyFor(r.URL.Path)
				if !policy.Empty() {
					policy = policy.ReportOnly(cfg.ReportOnly)
					h.Set(policy.HeaderName(), policy.Build())
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (c CSPConfig) policyFor(path string) csp.Policy {
	longest := ""
	policy := c.Default
	for prefix, p := range c.PathPolicies {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(longest) {
			longest, policy = prefix, p
		}
	}
	return policy
}
