// Package models defines the core domain models for the udhaar ledger.
//
// # Models
//
//   - Account: a registered party, either a business owner or a customer
//   - Transaction: one append-only credit/payment entry between an owner
//     and a customer
//
// Balances are never stored. They are derived from the transaction log by
// the ledger package, so a balance can always be recomputed from scratch
// and will agree with the recorded history.
//
// # Design Principles
//
//  1. Accounts are immutable after signup: no profile edit or delete.
//  2. Transactions are append-only: no update or delete.
//  3. Role and Kind are closed enumerations, not open strings, so kind
//     handling in balance computation is exhaustively checkable.
//  4. Monetary amounts use decimal arithmetic (shopspring/decimal), never
//     binary floats.
package models
