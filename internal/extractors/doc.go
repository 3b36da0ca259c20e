// Package extractors provides implementations of the Extractor
// interface for the supported document formats. Each extractor knows
// how to pull text content out of one or more formats.
//
// Extractors are registered with the Registry at startup.
package extractors
