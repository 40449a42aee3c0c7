// Package config loads vbind.yaml, the project file of the vbind CLI.
//
// Example:
//
//	template: page.html
//	data: data.yaml
//	el: "#app"
//	addr: ":8080"
//	max_update_depth: 100
//	s3:
//	  region: eu-west-1
//
// Relative template and data paths are resolved against the directory
// holding vbind.yaml; s3:// URLs are used as-is.
package config
