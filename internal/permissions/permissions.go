// Package permissions implements spec.md §3's Permissions and Sandbox data
// model: a predicate over (package, class, member) gating every uberspect
// resolution, plus a sandbox of per-class allow/deny lists layered on top.
package permissions

import (
	"strings"

	"github.com/tidwall/match"
)

// MemberKind distinguishes the three sandboxed operation kinds.
type MemberKind int

const (
	MemberPropertyRead MemberKind = iota
	MemberPropertyWrite
	MemberMethodCall
)

// rule is one allow or deny line, grounded on spec.md §6's
// `JexlPermissions.parse` grammar: `package.*` allow-lines and
// `package.Class { member; ... }` deny-lines.
type rule struct {
	pattern string // e.g. "java.lang.*" or "java.lang.Runtime"
	members map[string]bool
	deny    bool
}

// Permissions is a predicate over (class, member) built from parsed rules,
// checked before every uberspect resolution (spec.md §4.2).
type Permissions struct {
	rules []rule
}

// restrictedPackages is the curated deny list RESTRICTED starts from,
// standing in for spec.md §3's "denies reflective access to a curated list
// of dangerous packages" — here expressed in Go-ish terms as package paths
// an embedding host would never want a script to reach.
var restrictedPackages = []string{
	"os.*", "os/exec.*", "syscall.*", "unsafe.*", "reflect.*", "runtime.*", "net.*",
}

// Restricted returns the default-deny policy used from RESTRICTED mode.
func Restricted() *Permissions {
	p := &Permissions{}
	for _, pkg := range restrictedPackages {
		p.rules = append(p.rules, rule{pattern: pkg, deny: true})
	}
	return p
}

// Unrestricted returns a policy that allows everything.
func Unrestricted() *Permissions { return &Permissions{} }

// Parse builds a Permissions from lines of the form "pkg.*" (allow) or
// "pkg.Class { member; member2 }" (deny), per spec.md §6.
func Parse(lines ...string) (*Permissions, error) {
	p := &Permissions{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if idx := strings.Index(line, "{"); idx >= 0 {
			pattern := strings.TrimSpace(line[:idx])
			body := strings.TrimSuffix(strings.TrimSpace(line[idx+1:]), "}")
			members := make(map[string]bool)
			for _, m := range strings.Split(body, ";") {
				m = strings.TrimSpace(m)
				if m != "" {
					members[m] = true
				}
			}
			p.rules = append(p.rules, rule{pattern: pattern, members: members, deny: true})
			continue
		}
		p.rules = append(p.rules, rule{pattern: line, deny: false})
	}
	return p, nil
}

// Allows reports whether `class.member` may be reflectively accessed. Deny
// rules are evaluated after allow rules and take precedence, matching the
// spec's "RESTRICTED... denies... a curated list" framing: an explicit deny
// always wins.
func (p *Permissions) Allows(class, member string) bool {
	if p == nil {
		return true
	}
	allowed := len(allowRules(p.rules)) == 0 // no allow-lines means allow-all by default
	for _, r := range p.rules {
		if r.deny {
			continue
		}
		if match.Match(class, r.pattern) {
			allowed = true
		}
	}
	for _, r := range p.rules {
		if !r.deny {
			continue
		}
		if !match.Match(class, r.pattern) {
			continue
		}
		if len(r.members) == 0 {
			return false // whole-class deny
		}
		if r.members[member] {
			return false
		}
	}
	return allowed
}

func allowRules(rules []rule) []rule {
	var out []rule
	for _, r := range rules {
		if !r.deny {
			out = append(out, r)
		}
	}
	return out
}

// Sandbox layers per-class allow/deny lists for property read, property
// write, and method call on top of Permissions (spec.md §3 Sandbox).
type Sandbox struct {
	allow map[MemberKind]map[string]map[string]bool
	deny  map[MemberKind]map[string]map[string]bool
}

// NewSandbox builds an empty sandbox (everything permissions already
// allow also passes the sandbox, until rules are added).
func NewSandbox() *Sandbox {
	return &Sandbox{
		allow: map[MemberKind]map[string]map[string]bool{},
		deny:  map[MemberKind]map[string]map[string]bool{},
	}
}

// Deny forbids class.member for the given operation kind.
func (s *Sandbox) Deny(kind MemberKind, class, member string) {
	s.addRule(s.deny, kind, class, member)
}

// Allow explicitly permits class.member for the given operation kind,
// overriding a broader deny only when the deny was not a whole-class deny.
func (s *Sandbox) Allow(kind MemberKind, class, member string) {
	s.addRule(s.allow, kind, class, member)
}

func (s *Sandbox) addRule(table map[MemberKind]map[string]map[string]bool, kind MemberKind, class, member string) {
	byClass, ok := table[kind]
	if !ok {
		byClass = map[string]map[string]bool{}
		table[kind] = byClass
	}
	members, ok := byClass[class]
	if !ok {
		members = map[string]bool{}
		byClass[class] = members
	}
	members[member] = true
}

// Allows reports whether the sandbox permits class.member for kind.
func (s *Sandbox) Allows(class, member string, kind MemberKind) bool {
	if s == nil {
		return true
	}
	if byClass, ok := s.deny[kind]; ok {
		if members, ok := byClass[class]; ok && members[member] {
			if allowed, ok := s.allow[kind][class]; ok && allowed[member] {
				return true
			}
			return false
		}
	}
	return true
}
