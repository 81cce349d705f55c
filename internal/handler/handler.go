// Package handler is the first entry point for business logic after the
// router.
//
// It binds and validates requests using the validation package, calls the
// service layer, and hands results or errors back to Echo.
package handler
