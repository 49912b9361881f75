// Package driving defines the service interfaces the transport layer calls.
// Implementations live in internal/core/services.
package driving
