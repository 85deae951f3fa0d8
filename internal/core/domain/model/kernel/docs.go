// Package kernel provides the value objects shared by every aggregate of the
// fulfillment domain.
//
// The package includes:
//   - UUID: identifier for orders and stock holds
//   - WorkerID: the identity of a warehouse worker claiming a lease
//
// Both are immutable, and their zero values are invalid so that an
// uninitialised identifier never reaches storage.
package kernel
