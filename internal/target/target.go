package target

import (
	"fmt"
	"net"
	"net/mail"
	"strings"

	"golang.org/x/net/publicsuffix"
)

type Kind string

const (
	KindEmail     Kind = "EMAIL"
	KindDomain    Kind = "DOMAIN"
	KindIPAddress Kind = "IP_ADDRESS"
)

// Target is the validated identifier under investigation. Immutable once built.
type Target struct {
	Raw  string
	Kind Kind
}

// Error is the terminal input error for an unrecognized target shape.
type Error struct {
	Raw    string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid target %q: %s", e.Raw, e.Reason)
}

// Parse infers the target kind from its shape. The order matters: an email
// address contains both "@" and a domain, and an IP literal would otherwise
// pass the domain check on some resolvers.
func Parse(raw string) (Target, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Target{}, &Error{Raw: raw, Reason: "target is empty"}
	}
	if strings.ContainsAny(trimmed, " \t") {
		return Target{}, &Error{Raw: trimmed, Reason: "target contains whitespace"}
	}

	if strings.Contains(trimmed, "@") {
		addr, err := mail.ParseAddress(trimmed)
		if err != nil || addr.Address != trimmed {
			return Target{}, &Error{Raw: trimmed, Reason: "malformed email address"}
		}
		domain := trimmed[strings.LastIndex(trimmed, "@")+1:]
		if !isDomain(domain) {
			return Target{}, &Error{Raw: trimmed, Reason: "email has no registrable domain"}
		}
		return Target{Raw: trimmed, Kind: KindEmail}, nil
	}

	if ip := net.ParseIP(trimmed); ip != nil {
		return Target{Raw: trimmed, Kind: KindIPAddress}, nil
	}

	if isDomain(trimmed) {
		return Target{Raw: strings.ToLower(trimmed), Kind: KindDomain}, nil
	}

	return Target{}, &Error{Raw: trimmed, Reason: "not an email, domain, or IP address"}
}

func isDomain(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" || !strings.Contains(host, ".") {
		return false
	}
	if net.ParseIP(host) != nil {
		return false
	}
	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			if r != '-' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
				return false
			}
		}
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(host); err != nil {
		return false
	}
	return true
}

// RootDomain returns the registrable domain for the target, used to label
// report output. Emails map to their mailbox domain, IPs to themselves.
func (t Target) RootDomain() string {
	switch t.Kind {
	case KindEmail:
		domain := t.Raw[strings.LastIndex(t.Raw, "@")+1:]
		root, err := publicsuffix.EffectiveTLDPlusOne(strings.ToLower(domain))
		if err != nil {
			return strings.ToLower(domain)
		}
		return root
	case KindDomain:
		root, err := publicsuffix.EffectiveTLDPlusOne(t.Raw)
		if err != nil {
			return t.Raw
		}
		return root
	default:
		return t.Raw
	}
}
