// Package config provides configuration management for the reconciliation service.
//
// It uses Viper to load configuration from environment variables, optionally
// seeded from a .env file. Every key has a default declared next to the field
// it configures, so the service starts with no configuration at all.
//
// # Configuration Structure
//
// The Config struct is divided into subsections:
//   - Server: HTTP port, API key, body limit
//   - Database: driver (mysql or sqlite) and connection details
//   - Storage: S3/MinIO credentials and bucket
//   - Staging: where uploaded inputs are kept
//   - Queue: queue capacity, worker timeouts and the stale job sweep
//   - Log: logging level and format
//
// LoadRuleset reads a ruleset file for offline reconciliation.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Queue.Capacity)
package config
