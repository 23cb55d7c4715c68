package templates

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

var funcMap = template.FuncMap{
	"join":   strings.Join,
	"fixed":  Fixed,
	"plural": Plural,
	"lower":  strings.ToLower,
}

// Fixed formats v with prec decimals
func Fixed(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// Plural renders "1 pair" / "3 pairs"
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
