// Package confloader loads configuration with koanf and watches the
// configuration file with fsnotify.
//
// Priority (highest to lowest):
//
//  1. Environment variables (TOKAUTH_*)
//  2. Configuration file (YAML)
//  3. Values already present in the target struct
package confloader
