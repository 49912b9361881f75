// Package memory provides in-memory implementations of the driven store
// ports. They back service tests and ephemeral runs; durable deployments use
// the sqlite package. Ranked chunk search is a TF-IDF scorer over the
// company's stored corpus.
package memory
