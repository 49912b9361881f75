// Package driven defines the interfaces the core services depend on:
// persistence stores and the PDF text extractor. Adapters under
// internal/adapters/driven and internal/extractor implement them.
package driven
