// Package handler is the first layer after the router.
//
// Handlers receive bound and validated request structs, call the service
// layer and return typed results. They never format errors themselves;
// every error goes to the global error handler.
package handler
