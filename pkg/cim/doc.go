// Package cim defines the metamodel shared by every erdgen component.
//
// This package contains:
//   - Named elements (Schema, Class, Association, Property, Method, Reference, Trigger)
//   - Qualifiers, the typed attributes attached to elements
//   - The variant registry used to rebuild qualifier payloads from text
//
// The Golden Rule: pkg/cim imports ONLY stdlib.
// Domain payloads (pkg/erd), persistence (pkg/cim/sxml) and translators
// depend on cim, not the reverse.
package cim
