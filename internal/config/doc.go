// Package config manages the per-destination settings document and the
// layout of the .portatune directory each destination volume carries.
package config
