package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                              "/",
		"/metrics":                      "/metrics",
		"/v1/categories/42":             "/v1/categories/:id",
		"/v1/entries/7":                 "/v1/entries/:id",
		"/v1/entries/7?year=2025":       "/v1/entries/:id",
		"/v1/profiles/user-uuid":        "/v1/profiles/:userId",
		"/v1/events-log/user-uuid":      "/v1/events-log/:userId",
		"/v1/categories":                "/v1/categories",
		"/v1/categories/42/extra":       "/v1/categories/42/extra",
		"/v1/auth/token":                "/v1/auth/token",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
