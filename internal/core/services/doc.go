// Package services implements the driving ports: the ingestion and query
// orchestrators plus the access, auth and company bookkeeping around them.
// Services depend only on domain types and driven ports, so any store or
// extractor implementation can back them.
package services
