// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig keeps
// the framework-level settings (ports, TLS, log level); AppConfig is
// everything specific to the gateway itself.
type AppConfig struct {
	// Snapshot persistence. "file" keeps the original JSON files on
	// disk; "mongo" stores the same documents in MongoDB.
	StoreBackend string
	RBACFile     string // path of the RBAC snapshot (file backend)
	RequestsFile string // path of the access-request log (file backend)

	// MongoDB connection configuration (mongo backend only)
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Token signing
	JWTSecret string
	JWTExpiry time.Duration

	// Bootstrap global admin, created or promoted on startup when set.
	BootstrapAdminUser     string
	BootstrapAdminPassword string

	// MigratePlaintext upgrades legacy plaintext credentials to bcrypt
	// on first successful login.
	MigratePlaintext bool

	// CORSOrigins is the list of allowed browser origins. "*" allows
	// any origin.
	CORSOrigins []string
}
