// Package config manages application configuration for the Questboard API.
//
// Configuration is loaded from environment variables with development
// defaults, then validated before the server starts:
//
//	cfg, _ := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - AuthConfig: bcrypt hash of the bot's service token
//   - JobsConfig: background job cadence (summary reminders)
//
// # Environment Variables
//
//	QUESTBOARD_SERVER_PORT               - HTTP server port (default: 8080)
//	QUESTBOARD_SERVER_ENV                - development, production, or test
//	QUESTBOARD_DB_HOST, _DB_PORT         - SurrealDB endpoint
//	QUESTBOARD_DB_NAMESPACE, _DB_DATABASE - SurrealDB namespace and database
//	QUESTBOARD_DB_USER, _DB_PASSWORD     - SurrealDB credentials
//	QUESTBOARD_TOKEN_HASH                - bcrypt hash of the bot bearer token
//	QUESTBOARD_SUMMARY_REMINDER_INTERVAL - how often to sweep for overdue summaries
//	QUESTBOARD_SUMMARY_GRACE_PERIOD      - how long after completion before nagging
package config
