package recipe

import (
	"fmt"
	"regexp"
	"strings"
)

// Scope determines how a requirement is used by the produced package.
type Scope string

const (
	// ScopeLink marks a requirement that the package re-exposes to its own
	// consumers at link time (and that must be present at runtime).
	ScopeLink Scope = "link"

	// ScopeBuild marks a requirement needed solely to compile the package.
	// It is never exposed downstream.
	ScopeBuild Scope = "build"
)

// Requirement is a pinned external library dependency.
type Requirement struct {
	Name    string
	Version string
	Channel string
	Scope   Scope
}

var refNameRegexp = regexp.MustCompile(`^[A-Za-z0-9_\-.]+$`)
var refVersionRegexp = regexp.MustCompile(`^\d+(\.\d+){0,3}$`)
var refChannelRegexp = regexp.MustCompile(`^[A-Za-z0-9_\-.]+/[A-Za-z0-9_\-.]+$`)

// ParseRef parses a requirement reference of the form
// `name/version` or `name/version@user/channel`. Versions must be exact
// pins; ranges or symbolic versions are rejected.
func ParseRef(ref string, scope Scope) (Requirement, error) {
	req := Requirement{Scope: scope}

	rest := ref
	if at := strings.IndexByte(rest, '@'); at != -1 {
		req.Channel = rest[at+1:]
		rest = rest[:at]
		if !refChannelRegexp.MatchString(req.Channel) {
			return req, &ConfigurationError{Field: "requires", Value: ref, Reason: "channel must have the form user/channel"}
		}
	}

	slash := strings.IndexByte(rest, '/')
	if slash == -1 {
		return req, &ConfigurationError{Field: "requires", Value: ref, Reason: "reference must have the form name/version"}
	}
	req.Name = rest[:slash]
	req.Version = rest[slash+1:]

	if !refNameRegexp.MatchString(req.Name) {
		return req, &ConfigurationError{Field: "requires", Value: ref, Reason: "name contains unallowed characters"}
	}
	if !refVersionRegexp.MatchString(req.Version) {
		return req, &ConfigurationError{Field: "requires", Value: ref, Reason: "version must be an exact pin"}
	}
	return req, nil
}

// Ref returns the reference string of the requirement.
func (r Requirement) Ref() string {
	if r.Channel == "" {
		return fmt.Sprintf("%s/%s", r.Name, r.Version)
	}
	return fmt.Sprintf("%s/%s@%s", r.Name, r.Version, r.Channel)
}

func (r Requirement) String() string {
	return fmt.Sprintf("%s (%s)", r.Ref(), r.Scope)
}

// ResolveRequirements returns the ordered requirement list of the recipe for
// the given settings. The result is deterministic: identical inputs always
// yield an identical, identically ordered sequence, since consumers may
// depend on link order. The returned slice is a copy and safe to retain.
func ResolveRequirements(settings Settings, rec Recipe) []Requirement {
	reqs := make([]Requirement, len(rec.Requires))
	copy(reqs, rec.Requires)
	return reqs
}

// LinkRequirements filters the link-and-runtime requirements, preserving order.
func LinkRequirements(reqs []Requirement) []Requirement {
	return filterScope(reqs, ScopeLink)
}

// BuildRequirements filters the build-only requirements, preserving order.
func BuildRequirements(reqs []Requirement) []Requirement {
	return filterScope(reqs, ScopeBuild)
}

func filterScope(reqs []Requirement, scope Scope) []Requirement {
	result := []Requirement{}
	for _, req := range reqs {
		if req.Scope == scope {
			result = append(result, req)
		}
	}
	return result
}
