// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS, request limits). AppConfig is everything specific
// to the chat service itself.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: brainbeyond-session)
	SessionDomain string // Cookie domain (blank means current host)

	// RedisURL enables the cross-instance push backplane when set.
	// Blank runs the hub in single-instance mode.
	RedisURL string

	// AllowedOrigin is the SPA origin accepted for websocket upgrades
	// (e.g., "https://app.brainbeyond.com"). Blank means same-origin only.
	AllowedOrigin string

	// Bootstrap admin: created (or promoted) on startup so a fresh
	// deployment has a way in. Blank disables the seed.
	AdminEmail    string
	AdminPassword string
}
