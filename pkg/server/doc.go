// Package server holds the HTTP server shell the endpoints register against.
package server
