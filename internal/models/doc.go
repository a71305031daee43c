// Package models defines the core domain models for the gift-pool backend.
//
// # Model Overview
//
//   - User: a registered account; contributors and list owners are users
//   - Event: an occasion (birthday, holiday) gathering participants via invitation code
//   - List: one participant's wish list inside an event
//   - Item: a single gift on a list
//   - Contribution: one user's recorded pledge toward an item
//   - Debt: a derived reimbursement obligation between two users for one item
//
// # Design Principles
//
//  1. Amounts are bookkeeping numbers, not money movement; float64 with a 0.01
//     comparison tolerance everywhere, matching how they are displayed.
//  2. The item-level AdvancerUserID is the only record of who paid the full price
//     upfront. It is set exclusively inside the contribution upsert path, which keeps
//     the at-most-one-advancer rule structural instead of a per-row boolean convention.
//  3. Debts are derived state: only the debt deriver writes them, except for the
//     one-way settlement flag.
//  4. Relationships use ID strings rather than pointers to avoid circular references;
//     read paths attach minimal identity (name/email) where the UI needs it.
package models
