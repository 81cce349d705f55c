// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated lookups from the handler, consults the cache, and calls
// repository methods to read the imported tables.
package service
