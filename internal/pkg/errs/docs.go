// Package errs provides the typed errors shared by the fulfillment service.
//
// Every error type follows the same pattern:
//   - a sentinel variable (e.g., ErrLeaseConflict) usable with errors.Is
//   - a struct type carrying the details the caller needs
//   - a New… constructor (and New…WithCause where a cause makes sense)
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The types map onto the error taxonomy of the leasing layer:
//   - ValueIsRequiredError, ValueIsInvalidError: validation, rejected before storage
//   - ObjectNotFoundError: the addressed order, hold or lease does not exist
//   - LeaseConflictError: contention, expected and never retried automatically
//   - NotLeaseHolderError: authorization for lease-gated actions
//   - ConcurrentModificationError: a conditional write lost a race
//
// The HTTP adapter translates the sentinels into status codes, so handlers
// only ever need errors.Is / errors.As.
package errs
