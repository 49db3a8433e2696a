// Package exporters provides implementations of the Exporter interface
// for the downloadable correction formats. Each exporter renders the same
// annotated run sequence in its own representation.
//
// Exporters are registered with the Registry at startup.
package exporters
