package handoff

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		services []string
	}{
		{"simple", []string{"Flask", "MySQL", "AWS EC2"}},
		{"empty", []string{}},
		{"reserved characters", []string{"C++", "a&b=c", "100%", "Node.js / Express", `quote "x"`, "#hash", "?q"}},
		{"unicode", []string{"Ünïcode", "日本語", "emoji 🚀"}},
		{"duplicates keep order", []string{"b", "a", "b"}},
		{"percent sequences", []string{"%20", "%%", "%zz", "+plus+"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Payload{Repo: "octocat/hello", Analysis: "### Project Description\nHi & bye", Services: tt.services}

			link, err := in.URL("/results")
			require.NoError(t, err)

			u, err := url.Parse(link)
			require.NoError(t, err)

			out, err := Decode(u.Query())
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestDecodeMissingServices(t *testing.T) {
	p, err := Decode(url.Values{ParamRepo: {"o/r"}, ParamResponse: {"text"}})
	require.NoError(t, err)
	assert.Equal(t, "o/r", p.Repo)
	assert.Equal(t, "text", p.Analysis)
	assert.NotNil(t, p.Services)
	assert.Empty(t, p.Services)
}

func TestDecodeMalformedServices(t *testing.T) {
	inputs := []string{
		url.PathEscape(`["Flask","My`),
		`%zz`,
		url.PathEscape(`{"not":"array"}`),
		url.PathEscape(`[1,2,3]`),
	}

	for _, raw := range inputs {
		t.Run(raw, func(t *testing.T) {
			p, err := Decode(url.Values{ParamRepo: {"o/r"}, ParamServices: {raw}})

			var serr *ServicesError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, "o/r", p.Repo)
			assert.NotNil(t, p.Services)
			assert.Empty(t, p.Services)
		})
	}
}

func TestDecodeQuery(t *testing.T) {
	in := Payload{Repo: "o/r", Analysis: "a", Services: []string{"Docker"}}
	link, err := in.URL("http://localhost:8080/results")
	require.NoError(t, err)

	for _, s := range []string{link, link[len("http://localhost:8080/results"):], link[len("http://localhost:8080/results?"):]} {
		p, err := DecodeQuery(s)
		require.NoError(t, err, s)
		assert.Equal(t, in, p)
	}
}

func TestServicesURL(t *testing.T) {
	link, err := ServicesURL("/diagram.svg", []string{"C++", "Node.js"})
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "/diagram.svg", u.Path)
	assert.NotContains(t, u.Query(), ParamRepo)

	p, err := Decode(u.Query())
	require.NoError(t, err)
	assert.Equal(t, []string{"C++", "Node.js"}, p.Services)
}

func TestDecodeSingleEncodedLink(t *testing.T) {
	// encodeURIComponent(JSON.stringify(services)) placed straight into the query.
	tests := []struct {
		query string
		want  []string
	}{
		{"services=%5B%22C%2B%2B%22%2C%22Node.js%22%5D", []string{"C++", "Node.js"}},
		{"services=%5B%22Spring%20Boot%22%5D", []string{"Spring Boot"}},
		{"services=%5B%22100%25%20uptime%22%2C%22Redis%22%5D", []string{"100% uptime", "Redis"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p, err := DecodeQuery("message.html?repo=acme%2Fshop&" + tt.query)
			require.NoError(t, err)
			assert.Equal(t, "acme/shop", p.Repo)
			assert.Equal(t, tt.want, p.Services)
		})
	}
}

func TestServicesInnerEncoding(t *testing.T) {
	v, err := Payload{Services: []string{"C++", "Spring Boot"}}.Values()
	require.NoError(t, err)
	// spaces as %20, never "+", so a decodeURIComponent reader gets the same list
	assert.Equal(t, `%5B%22C++%22%2C%22Spring%20Boot%22%5D`, v.Get(ParamServices))
}
