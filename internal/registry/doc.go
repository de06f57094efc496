// Package registry describes the AI tools a project can be bootstrapped
// for and the tag vocabulary the selection filter understands.
//
// The default registry is embedded from registry.yaml and validated
// against schema/registry.schema.json; a user override file can be named
// with the registry_file config key.
package registry
