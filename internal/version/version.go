// Package version records the phenoflux release version, embedded into
// generated artifacts such as ENVI headers.
package version

// Version is the current phenoflux release.
const Version = "0.1.0"
