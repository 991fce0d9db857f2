// Package config loads sweep settings from YAML or HCL files. Every key is
// optional; absent keys keep the defaults from sweep.DefaultConfig.
//
// HCL files may reference the variable `cpus`, the number of logical CPUs,
// for example `workers = cpus`.
package config
