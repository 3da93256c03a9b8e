package models

import "strings"

// Disciplines is the fixed set of categories a piece can belong to.
var Disciplines = []string{
	"glyphspin",
	"embedweave",
	"tokencraft",
	"attention-theater",
	"context-cinema",
	"probability-gardens",
	"chorus",
	"call-echo",
	"confabulation",
	"inference-dance",
	"liminal-linguistics",
	"generative-gardens",
}

// NormalizeDiscipline lowercases d and reports whether it is a known discipline.
func NormalizeDiscipline(d string) (string, bool) {
	lower := strings.ToLower(d)
	for _, known := range Disciplines {
		if lower == known {
			return lower, true
		}
	}
	return lower, false
}
