package entity

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// maxURLLength defines the maximum allowed length for URLs to prevent DoS attacks.
const maxURLLength = 2048

// socialHosts is the allow-list of social platforms accepted for live update links.
// Subdomains (www., m., mobile.) are matched too.
var socialHosts = []string{
	"twitter.com",
	"x.com",
	"facebook.com",
	"instagram.com",
	"linkedin.com",
	"youtube.com",
	"youtu.be",
	"tiktok.com",
	"threads.net",
	"bsky.app",
	"mastodon.social",
	"reddit.com",
}

// ValidateHTTPURL checks that rawURL is a well-formed absolute http or https URL.
// It performs no network lookups.
func ValidateHTTPURL(field, rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: field, Message: "URL is required"}
	}

	// DoS protection: enforce maximum URL length
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("url must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: field, Message: "URL is malformed"}
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: field, Message: "URL must use http or https scheme"}
	}

	if parsedURL.Host == "" {
		return &ValidationError{Field: field, Message: "URL must have a valid host"}
	}

	return nil
}

// ValidateURL validates a URL the server is about to fetch (feed imports).
// On top of ValidateHTTPURL it blocks private IP addresses to prevent SSRF attacks.
func ValidateURL(rawURL string) error {
	if err := ValidateHTTPURL("url", rawURL); err != nil {
		return err
	}

	parsedURL, _ := url.Parse(rawURL)
	host := parsedURL.Hostname()
	ips, err := net.LookupIP(host)
	if err == nil && len(ips) > 0 {
		for _, ip := range ips {
			if isPrivateIP(ip) {
				return &ValidationError{
					Field:   "url",
					Message: "url cannot point to private network",
				}
			}
		}
	}

	return nil
}

// NormalizeSocialLink returns the trimmed link when it is an http(s) URL on a
// known social platform, and nil otherwise. Invalid links are dropped, not rejected.
func NormalizeSocialLink(raw string) *string {
	link := strings.TrimSpace(raw)
	if link == "" || ValidateHTTPURL("social_link", link) != nil {
		return nil
	}
	u, _ := url.Parse(link)
	if !IsSocialHost(u.Hostname()) {
		return nil
	}
	return &link
}

// IsSocialHost reports whether host belongs to the social platform allow-list.
func IsSocialHost(host string) bool {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	for _, allowed := range socialHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// SplitTags turns the comma-separated wire form into an ordered tag list.
// Blank entries and repeats are dropped; first occurrence wins.
func SplitTags(raw string) []string {
	tags := []string{}
	seen := make(map[string]struct{})
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags renders tags in the comma-separated wire form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// isPrivateIP checks if an IP address is in a private or restricted range.
// This prevents SSRF attacks by blocking access to:
// - localhost (127.0.0.0/8, ::1)
// - link-local addresses (169.254.0.0/16, fe80::/10)
// - private networks (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16)
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() {
		return true
	}

	privateIPv4Ranges := []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
	}

	for _, cidr := range privateIPv4Ranges {
		_, subnet, _ := net.ParseCIDR(cidr)
		if subnet.Contains(ip) {
			return true
		}
	}

	return false
}
