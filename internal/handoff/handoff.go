// Package handoff carries an analysis from the submit step to the results view
// as URL query parameters.
package handoff

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Query parameter names shared by both views.
const (
	ParamRepo     = "repo"
	ParamResponse = "response"
	ParamServices = "services"
)

// Payload is everything the results view needs.
type Payload struct {
	Repo     string
	Analysis string
	Services []string
}

// ServicesError reports an unreadable services parameter. The payload that
// accompanies it is still usable, with an empty service list.
type ServicesError struct {
	Raw string
	Err error
}

func (e *ServicesError) Error() string {
	return fmt.Sprintf("parsing services parameter %q: %v", e.Raw, e.Err)
}

func (e *ServicesError) Unwrap() error {
	return e.Err
}

// Values encodes the payload. The services parameter is a JSON array that is
// percent-encoded once more on top of the query encoding, the way
// encodeURIComponent does it: spaces become %20 and "+" stays literal.
func (p Payload) Values() (url.Values, error) {
	services := p.Services
	if services == nil {
		services = []string{}
	}
	data, err := json.Marshal(services)
	if err != nil {
		return nil, err
	}

	v := url.Values{}
	v.Set(ParamRepo, p.Repo)
	v.Set(ParamResponse, p.Analysis)
	v.Set(ParamServices, url.PathEscape(string(data)))
	return v, nil
}

// URL returns base with the payload as its query string.
func (p Payload) URL(base string) (string, error) {
	v, err := p.Values()
	if err != nil {
		return "", err
	}
	return base + "?" + v.Encode(), nil
}

// ServicesURL returns base with only the services parameter set.
func ServicesURL(base string, services []string) (string, error) {
	v, err := Payload{Services: services}.Values()
	if err != nil {
		return "", err
	}
	return base + "?" + url.Values{ParamServices: v[ParamServices]}.Encode(), nil
}

// Decode reads a payload from query values. A missing services parameter yields
// an empty list; a malformed one yields an empty list and a *ServicesError.
func Decode(v url.Values) (Payload, error) {
	p := Payload{
		Repo:     v.Get(ParamRepo),
		Analysis: v.Get(ParamResponse),
		Services: []string{},
	}

	raw := v.Get(ParamServices)
	if raw == "" {
		return p, nil
	}

	services, err := decodeServices(raw)
	if err != nil {
		return p, &ServicesError{Raw: raw, Err: err}
	}
	p.Services = services
	return p, nil
}

// DecodeQuery parses a raw query string, tolerating a leading "?" or a full URL.
func DecodeQuery(s string) (Payload, error) {
	if u, err := url.Parse(s); err == nil && (u.RawQuery != "" || u.Scheme != "") {
		s = u.RawQuery
	}
	if len(s) > 0 && s[0] == '?' {
		s = s[1:]
	}
	v, err := url.ParseQuery(s)
	if err != nil {
		return Payload{Services: []string{}}, fmt.Errorf("parsing query: %w", err)
	}
	return Decode(v)
}

// decodeServices undoes the inner encoding with decodeURIComponent semantics.
// Links that carry the JSON encoded only once arrive here already decoded; when
// a literal "%" makes the second unescape fail, raw is parsed as it is.
func decodeServices(raw string) ([]string, error) {
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		unescaped = raw
	}
	var services []string
	if err := json.Unmarshal([]byte(unescaped), &services); err != nil {
		return nil, err
	}
	if services == nil {
		services = []string{}
	}
	return services, nil
}
