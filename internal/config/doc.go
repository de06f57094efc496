// Package config manages user-level settings stored at ~/.mvagnon/config.yaml.
// Keys can be overridden through MVAGNON_* environment variables; they
// locate the stable mirror, the source catalog and an optional tool
// registry override.
package config
