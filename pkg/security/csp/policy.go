// Package csp builds Content-Security-Policy header values.
package csp

import "strings"

const (
	HeaderEnforce    = "Content-Security-Policy"
	HeaderReportOnly = "Content-Security-Policy-Report-Only"
)

type directive struct {
	name    string
	sources []string
}

// Policy is an ordered set of directives. Methods return modified copies,
// so a preset can be shared between handlers.
type Policy struct {
	directives []directive
	reportOnly bool
}

// With sets a directive, replacing an earlier value of the same name while
// keeping its position.
func (p Policy) With(name string, sources ...string) Policy {
	out := p.clone()
	for i, d := range out.directives {
		if d.name == name {
			out.directives[i].sources = append([]string(nil), sources...)
			return out
		}
	}
	out.directives = append(out.directives, directive{name: name, sources: append([]string(nil), sources...)})
	return out
}

// ReportOnly switches the policy to the report-only header.
func (p Policy) ReportOnly(enabled bool) Policy {
	out := p.clone()
	out.reportOnly = enabled
	return out
}

func (p Policy) clone() Policy {
	out := Policy{reportOnly: p.reportOnly, directives: make([]directive, len(p.directives))}
	copy(out.directives, p.directives)
	return out
}

// Build renders the header value, e.g. "default-src 'none'; frame-ancestors 'none'".
// Directives without sources are rendered bare (upgrade-insecure-requests).
func (p Policy) Build() string {
	parts := make([]string, 0, len(p.directives))
	for _, d := range p.directives {
		if len(d.sources) == 0 {
			parts = append(parts, d.name)
			continue
		}
		parts = append(parts, d.name+" "+strings.Join(d.sources, " "))
	}
	return strings.Join(parts, "; ")
}

func (p Policy) HeaderName() string {
	if p.reportOnly {
		return HeaderReportOnly
	}
	return HeaderEnforce
}

func (p Policy) Empty() bool { return len(p.directives) == 0 }

// APIPolicy forbids everything: JSON and RSS responses never load resources.
func APIPolicy() Policy {
	return Policy{}.
		With("default-src", "'none'").
		With("frame-ancestors", "'none'").
		With("base-uri", "'none'")
}

// SwaggerUIPolicy allows the inline bootstrap script and styles of the
// bundled Swagger UI.
func SwaggerUIPolicy() Policy {
	return Policy{}.
		With("default-src", "'self'").
		With("script-src", "'self'", "'unsafe-inline'").
		With("style-src", "'self'", "'unsafe-inline'").
		With("img-src", "'self'", "data:").
		With("frame-ancestors", "'none'")
}
