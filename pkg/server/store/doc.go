// Package store provides storage abstractions for the immpres server.
//
// This package defines interfaces for database operations, allowing the
// server endpoints to be decoupled from the specific database implementation.
// This enables easier testing with mocks and potential support for different
// storage backends.
//
// # Available Stores
//
//   - UsersStore: account lookup, signup and credential updates
//   - ResourcesStore: impression/object listing, lookup and mutation
//   - HealthStore: connectivity checks for the status endpoint
//
// # Usage
//
//	users := gorm.NewUsersStore(db)
//	user, err := users.FindByLogin("alice")
//	if err != nil {
//	    if errors.Is(err, store.ErrNotFound) {
//	        // Handle not found
//	    }
//	}
package store
