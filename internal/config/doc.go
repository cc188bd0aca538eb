// Package config manages user-level settings stored at ~/.forgeflow/config.yaml.
// It provides functions to load, read, and write configuration keys such as
// the default output directory and the worker count used for parallel
// artifact generation.
package config
