package config

import (
	"time"

	"github.com/linkforge/linkforge/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Cache holds the public-endpoint edge cache settings.
type Cache struct {
	// Enabled turns response caching for the public endpoints on or off.
	Enabled bool
	// TTLSeconds is how long a cached public response may be served before
	// natural expiry. Publish purges entries earlier.
	TTLSeconds int
}

// OIDC holds the optional OpenID Connect owner sign-in settings.
type OIDC struct {
	Enabled      bool
	ProviderURL  string // discovery URL, e.g. "https://accounts.google.com"
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	OIDC      OIDC
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool    // disable recover middleware
	Domain         string  // domain name for the webserver
	Port           int     // listening port for the webserver
	ShutDownTime   int     // wait time for shutdown
	URL            string  // base url for the webserver
	Session        Session // session settings
	Cache          Cache   // public edge cache settings
}
