// Package confloader loads configuration with koanf and watches the
// configuration file with fsnotify.
//
// Priority (highest to lowest):
//
//  1. Maps loaded last (command-line flags)
//  2. Environment variables (NSREMOVER_ prefix, "__" between levels)
//  3. The YAML configuration file
//  4. Defaults already present in the target struct
package confloader
