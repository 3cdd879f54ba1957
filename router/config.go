package router

import "time"

// Config holds the settings consumed by the default middleware chain.
type Config struct {
	// Timeout bounds the handler; zero disables the timeout middleware.
	Timeout time.Duration `yaml:"timeout"`
	CORS    CORSConfig    `yaml:"cors"`
	CSRF    CSRFConfig    `yaml:"csrf"`
	// QuietdownRoutes are paths the logging middleware skips, e.g. "/metrics".
	QuietdownRoutes []string `yaml:"quietdown_routes"`
	// HideHeaders are request headers whose values are redacted in logs.
	HideHeaders []string `yaml:"hide_headers"`
}

// CORSConfig configures the CORS middleware. It is only installed when
// Origins is non-empty; "*" allows any origin.
type CORSConfig struct {
	Origins          []string `yaml:"origins"`
	Methods          []string `yaml:"methods"`
	Headers          []string `yaml:"headers"`
	AllowCredentials bool     `yaml:"allow_credentials"`
}

// CSRFConfig configures the cross-site form submission guard.
type CSRFConfig struct {
	// Disabled turns the guard off entirely.
	Disabled bool `yaml:"disabled"`
	// TrustedOrigins may submit forms in addition to the request's own origin.
	TrustedOrigins []string `yaml:"trusted_origins"`
}
