// Package service implements the application's business operations on top
// of the persistence interfaces defined in internal/store. It contains the
// identity logic of the system: uniqueness enforcement at registration,
// credential verification at login, opaque-token lookup, and status
// transitions.
package service
