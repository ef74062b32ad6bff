// Package registry maps _target_ names to component factories.
//
// A resolved configuration section that carries a _target_ key names the
// factory that should be instantiated from it; the section's remaining keys
// are the factory's arguments. Registries are populated explicitly at
// startup; there is no path-based or reflective lookup.
package registry
