// Package order provides the Order aggregate of the fulfillment workflow:
// its status state machine and the two work leases (packing, delivery) that
// stop two warehouse workers from handling the same order at once.
//
// The package includes:
//   - Order: aggregate root holding the status and both leases
//   - Status: closed enumeration with an explicit transition table
//   - Lease: per-kind work claim (idle -> in_progress -> ready)
//   - Transition: the outcome of a validated status change, applied by the
//     repository as one conditional write
//
// Key business rules:
//   - At most one worker holds a lease kind at any instant
//   - A ready lease is terminal and keeps the identity of whoever did the work
//   - PAYMENT_VERIFIED -> PACKING -> LABEL_GENERATED require the packing lease
//   - LABEL_GENERATED -> PENDING_DELIVERY -> DELIVERED require the delivery lease
//
// Lease claims themselves are decided by the store (see ports.OrderRepository);
// the predicates here describe the same rules for the state machine and for
// interpreting a rejected claim.
package order
