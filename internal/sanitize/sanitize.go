package sanitize

import (
	"regexp"
	"strings"
)

var scriptBlockRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// Clean remove blocos <script>...</script> inteiros (sem diferenciar
// maiúsculas, atravessando tags embutidas), depois qualquer < ou > restante,
// e apara espaços nas pontas. É idempotente.
func Clean(s string) string {
	s = scriptBlockRe.ReplaceAllString(s, "")
	s = angleBrackets.Replace(s)
	return strings.TrimSpace(s)
}
