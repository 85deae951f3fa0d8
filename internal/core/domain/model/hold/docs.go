// Package hold provides the StockHold aggregate: a time-bounded reservation
// of catalog stock made when an order is placed.
//
// An unconfirmed hold counts against availability until it expires; a
// confirmed hold (payment verified) counts forever. Availability itself is
// never stored, it is recomputed from the live holds on every read.
package hold
