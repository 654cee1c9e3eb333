// Package service holds the registro operations.
//
// Handlers pass in bound and validated requests. Each operation issues one
// repository call, turns driver failures into *errs.Error values and, after
// a create, hands the new registro to the optional notifier.
package service
