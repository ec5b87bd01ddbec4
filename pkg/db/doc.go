// Package db provides database connection helpers for the immpres server.
package db
