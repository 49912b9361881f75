// Package domain contains the core business entities and errors for the
// analyst API: companies, users, access grants, documents, chunks and the
// retrieval result types. It has no dependencies on other internal packages.
package domain
