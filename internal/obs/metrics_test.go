package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/metrics", "/metrics"},
		{"/healthz", "/healthz"},
		{"/api/customers", "/api/customers"},
		{"/api/customers/42", "/api/customers/:id"},
		{"/api/customers/42?x=1", "/api/customers/:id"},
		{"/api/customers/authenticate", "/api/customers/authenticate"},
		{"/api/customers/42/extra", "/api/customers/42/extra"},
		{"/api/customers?fullName=Frank", "/api/customers"},
	}
	for _, tc := range cases {
		if got := CanonicalPath(tc.in); got != tc.want {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
