// Package config provides configuration structures and utilities for zotsearch.
// It defines crawl, storage, and search settings, their defaults, validation,
// and the optional YAML configuration file.
package config
