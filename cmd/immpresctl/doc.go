// Package main implements immpresctl, the CLI for the immpres content-sharing
// server.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: storage interfaces and their gorm implementations
//   - pkg/query: listing/search query composition
//   - pkg/acl: per-resource capability checks
//   - pkg/token: session token issuing and verification
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	immpresctl db migrate
//
//	# Start the server
//	export IMMPRES_TOKEN_SECRET=...
//	export DATABASE_URL=postgres://...
//	immpresctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - IMMPRES_TOKEN_SECRET: secret used to sign session tokens
//   - IMMPRES_CONFIG_PATH: config directory (default: /etc/immpres/config)
//   - IMMPRES_LOG_LEVEL: log level (debug enables SQL logging)
//   - PORT: server port (default: 8000)
package main
