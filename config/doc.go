// Package config loads and validates engine core configuration.
//
// Configuration is YAML. Byte sizes are written the way people write them:
//
//	arena:
//	  reserve: 256MiB
//	  commit: 64KiB
//	frame:
//	  reserve: 64MiB
//	scratch:
//	  count: 4
//	  reserve: 64MiB
//	entities:
//	  reserve: 64MiB
//	memory:
//	  limit: 1GiB
//	log:
//	  level: info
//	  format: text
//
// Omitted fields keep their Default values.
package config
