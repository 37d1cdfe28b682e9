package did

import (
	"fmt"
	"net/url"
	"strings"
)

// Prefix is the method prefix shared by every did:wba identifier.
const Prefix = "did:wba:"

// EncodedColon separates host and port inside a did:wba identifier. It is
// part of the identifier's surface form and must never be percent-decoded
// when the DID string is stored or compared.
const EncodedColon = "%3A"

// Parts is the decomposed form of a did:wba identifier,
// did:wba:<host>[%3A<port>]:<segment>:...
type Parts struct {
	Host     string
	Port     string
	Segments []string
}

// Parse splits a did:wba identifier into its parts. The input string is
// not modified; callers keep using the original DID for comparisons.
func Parse(didStr string) (*Parts, error) {
	if !strings.HasPrefix(didStr, Prefix) {
		return nil, fmt.Errorf("not a did:wba identifier: %q", didStr)
	}

	rest := strings.TrimPrefix(didStr, Prefix)
	if rest == "" {
		return nil, fmt.Errorf("did:wba identifier has no host: %q", didStr)
	}

	fields := strings.Split(rest, ":")
	p := &Parts{Host: fields[0]}
	if p.Host == "" {
		return nil, fmt.Errorf("did:wba identifier has no host: %q", didStr)
	}
	if host, port, found := strings.Cut(p.Host, EncodedColon); found {
		if host == "" || port == "" {
			return nil, fmt.Errorf("malformed host%%3Aport in %q", didStr)
		}
		p.Host = host
		p.Port = port
	}
	if len(fields) > 1 {
		for _, seg := range fields[1:] {
			if seg == "" {
				return nil, fmt.Errorf("empty path segment in %q", didStr)
			}
			p.Segments = append(p.Segments, seg)
		}
	}

	return p, nil
}

// Authority returns host or host:port, suitable for a URL.
func (p *Parts) Authority() string {
	if p.Port != "" {
		return p.Host + ":" + p.Port
	}
	return p.Host
}

// DocumentURL maps the identifier to the HTTPS location of its DID
// document: path segments become URL path components with did.json
// appended; an identifier without segments resolves under /.well-known.
func (p *Parts) DocumentURL() string {
	u := url.URL{Scheme: "https", Host: p.Authority()}
	if len(p.Segments) == 0 {
		u.Path = "/.well-known/did.json"
	} else {
		u.Path = "/" + strings.Join(p.Segments, "/") + "/did.json"
	}
	return u.String()
}

// Fragment returns the part of a verification method id after '#', or ""
// when the id carries no fragment.
func Fragment(vmID string) string {
	_, frag, _ := strings.Cut(vmID, "#")
	return frag
}
