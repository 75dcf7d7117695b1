// Package policy decides, per request, whether a cross-origin caller may
// read a response, and which CORS headers the response must carry. The
// decision is a plain value: a disallowed origin is an outcome, never an
// error, because the server cannot stop the request — it only controls
// whether the caller's browser may unblock the body.
package policy

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/greetly/api/pkg/apperrors"
)

// Allowlist is an exact-match set of origins (scheme://host[:port]).
// Built once at startup and read-only thereafter; membership is the only
// operation, there is no pattern or wildcard matching.
type Allowlist map[string]struct{}

// NewAllowlist validates each entry and builds the set. Any empty,
// wildcard, schemeless, hostless or pathful entry is a misconfiguration:
// a broken policy silently disabling CORS for every caller is worse than
// refusing to start.
func NewAllowlist(origins []string) (Allowlist, error) {
	if len(origins) == 0 {
		return nil, apperrors.New(apperrors.CodeMisconfigured, "allowed origins list is empty")
	}
	set := make(Allowlist, len(origins))
	for _, raw := range origins {
		origin := strings.TrimSpace(raw)
		if origin == "" {
			return nil, apperrors.New(apperrors.CodeMisconfigured, "allowed origins list contains an empty entry")
		}
		if strings.Contains(origin, "*") {
			return nil, apperrors.Newf(apperrors.CodeMisconfigured, "wildcard origin %q not permitted: wildcards are incompatible with credentialed requests", origin)
		}
		u, err := url.Parse(origin)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeMisconfigured, "malformed origin "+origin)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, apperrors.Newf(apperrors.CodeMisconfigured, "origin %q must use an http or https scheme", origin)
		}
		if u.Host == "" {
			return nil, apperrors.Newf(apperrors.CodeMisconfigured, "origin %q has no host", origin)
		}
		if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
			return nil, apperrors.Newf(apperrors.CodeMisconfigured, "origin %q must be scheme://host[:port] with no path", origin)
		}
		set[origin] = struct{}{}
	}
	return set, nil
}

// Contains reports exact-match membership.
func (a Allowlist) Contains(origin string) bool {
	_, ok := a[origin]
	return ok
}

// Config is the read-only capability set consumed by Evaluate.
type Config struct {
	Origins     Allowlist
	Methods     []string
	Headers     []string
	Credentials bool
}

// Decision is the per-request policy outcome. AllowOrigin is the origin to
// echo back, or empty when the response must carry no
// Access-Control-Allow-Origin header. Each request gets a fresh value;
// nothing here is shared or retained.
type Decision struct {
	AllowOrigin      string
	AllowMethods     []string
	AllowHeaders     []string
	AllowCredentials bool
}

// Evaluate computes the policy decision for a request's Origin header
// value (empty when the header is absent). Pure: same inputs, same
// decision.
//
// An absent origin means a non-browser or same-origin caller; there is
// nothing to echo, but methods/headers/credentials are still advertised
// since a later real request may carry an origin. A present origin is
// echoed exactly when it is a member of the allowlist — never as a
// wildcard, which would break credentialed requests — and otherwise the
// echo is withheld so the browser blocks script access client-side.
func Evaluate(origin string, cfg Config) Decision {
	d := Decision{
		AllowMethods:     cfg.Methods,
		AllowHeaders:     cfg.Headers,
		AllowCredentials: cfg.Credentials,
	}
	if origin != "" && cfg.Origins.Contains(origin) {
		d.AllowOrigin = origin
	}
	return d
}

// Apply writes the decision onto a response header set. Header injection
// must happen before the response is finalized, including on terminated
// preflights.
//
// Order and presence rules: Allow-Origin only when there is an origin to
// echo; Allow-Credentials only as "true", never "false". Vary: Origin is
// added because the output depends on the request origin.
func (d Decision) Apply(h http.Header) {
	if d.AllowOrigin != "" {
		h.Set("Access-Control-Allow-Origin", d.AllowOrigin)
	}
	h.Set("Access-Control-Allow-Methods", strings.Join(d.AllowMethods, ","))
	h.Set("Access-Control-Allow-Headers", strings.Join(d.AllowHeaders, ","))
	if d.AllowCredentials {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	h.Add("Vary", "Origin")
}
