// Package domain contains the core business entities and domain logic of
// the identity service. It represents the heart of the system, independent
// of any specific infrastructure or delivery mechanism.
package domain
