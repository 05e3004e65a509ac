// Package server holds the HTTP server configuration.
//
// The Config struct defines the listen port, the API key protecting the routes
// and the request body limit applied to dataset uploads. It is embedded in
// core/config and read by the start command.
package server
