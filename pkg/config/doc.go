// Package config provides configuration management for the immpres server.
//
// Configuration is loaded from an optional YAML file and overridden by
// environment variables, with the source of each value tracked for the
// "config show" command.
//
// # Configuration Sources
//
//   - IMMPRES_CONFIG_PATH/immpres.yml (default /etc/immpres/config/immpres.yml)
//   - IMMPRES_* environment variables (take precedence)
//
// # Key Configuration Options
//
//   - IMMPRES_TOKEN_SECRET: session token signing secret (env only, required)
//   - DATABASE_URL: database connection (env only, required)
//   - IMMPRES_SESSION_TOKEN_TTL: token lifetime in seconds
//   - IMMPRES_API_RESOURCE_LIST_LIMIT_MAX: listing result cap
//   - IMMPRES_VERIFY_SIGNATURE_ON_LOOKUP: re-verify tokens on logout lookups
//   - IMMPRES_BCRYPT_COST: password hash work factor
package config
