// Package source loads templates and data for the CLI from local files or
// s3://bucket/key URLs, and decodes data files as JSON, YAML or TOML by
// extension.
package source
