// Copyright 2025 The Pollos Andino Authors
// SPDX-License-Identifier: Apache-2.0

package address

import (
	"regexp"

	"github.com/pollosandino/andino/utils/textutils"
)

// roadTypes is the lexicon of Colombian road nomenclature. An address must
// name a road type AND carry at least one number to pass the format check.
var (
	roadTypes = regexp.MustCompile(`\b(calle|carrera|diagonal|transversal|avenida|av|kr|cl|cra|car|cll|dg|tv)\b`)
	anyDigit  = regexp.MustCompile(`\d`)
)

// HasColombianFormat reports whether the text looks like a Colombian postal
// address: a road-type token plus at least one digit. Neither condition alone
// is sufficient ("carrera bonita" and "93-07" both fail).
func HasColombianFormat(address string) bool {
	folded := textutils.LowerASCIIFolding(address)

	return roadTypes.MatchString(folded) && anyDigit.MatchString(folded)
}
