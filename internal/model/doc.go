// Package model defines shared data types used across the notification client.
//
// Conventions:
//   - Timestamps: time.Time in UTC as delivered by the server (RFC 3339)
//   - IDs: server-assigned notification IDs, unique and stable
//   - Optional wire fields: pointers, nil when absent
package model
