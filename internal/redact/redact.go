// Package redact masks other companies' names in text before it leaves the
// system. It is a pure function over an injected company-catalog snapshot so
// it never reaches into shared state and is independently testable.
package redact

import (
	"strings"

	"github.com/ledgerworks/analyst-api/internal/core/domain"
)

// Mask is the token substituted for every masked company name.
const Mask = "[REDACTED]"

// Apply replaces every occurrence of each catalog company's name, other than
// the allowed company's, with Mask. Both the exact-case form and the
// all-lowercase form are masked; other casings are intentionally left alone.
// Companies with empty names are skipped. An allowedCompanyID not present in
// the catalog fails closed: every catalog name is masked.
func Apply(allowedCompanyID string, catalog []domain.Company, text string) string {
	for _, c := range catalog {
		if c.ID == allowedCompanyID || c.Name == "" {
			continue
		}
		text = strings.ReplaceAll(text, c.Name, Mask)
		text = strings.ReplaceAll(text, strings.ToLower(c.Name), Mask)
	}
	return text
}
