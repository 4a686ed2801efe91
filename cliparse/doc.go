// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3000)
  - DatabaseURL: SQLite file path or PostgreSQL connection string (required)
  - DatabaseType: "sqlite" (default) or "postgres"
  - LogDir: Directory for error.log, sql.log, validation.log and access.log (default: logs)
  - RedisAddr: Optional Redis address for the shared lookup cache
  - LookupTTL: Freshness of cached specialties and plans (default: 10m)

# CLI Flags

	-p           Server port
	-d           Database URL
	-t           Database type
	-logs        Log directory
	-redis       Redis address
	-lookup-ttl  Lookup cache TTL
	-env         Dotenv file (default: .env)

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	LOG_DIR       → -logs
	REDIS_ADDR    → -redis
	LOOKUP_TTL    → -lookup-ttl

CLI flags take precedence over environment variables. Before the
environment is read, the dotenv file is loaded if it exists; variables
already present in the environment are not overwritten by it.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - PORT or LOOKUP_TTL cannot be parsed
  - the database type is neither sqlite nor postgres
*/
package cliparse
