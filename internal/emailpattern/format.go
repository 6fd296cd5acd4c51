package emailpattern

import "strings"

// templates are the address formats the pipeline understands, most common
// first. Detect and Apply share this list so a detected format can always
// be re-applied to another name at the same company.
var templates = []string{
	"{first}.{last}",
	"{first}{last}",
	"{f}.{last}",
	"{f}{last}",
	"{first}",
	"{first}_{last}",
	"{first}.{l}",
}

// Apply renders a format template ("{first}.{last}", "{f}{last}", ...) for
// the given name at domain. Returns "" when the template references a name
// part that is missing, contains unknown placeholders, or would produce a
// malformed local part.
func Apply(template, firstName, lastName, domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" || template == "" {
		return ""
	}

	first := normalizePart(firstName)
	last := normalizePart(lastName)

	local := template
	sub := func(placeholder, value string) bool {
		if !strings.Contains(local, placeholder) {
			return true
		}
		if value == "" {
			return false
		}
		local = strings.ReplaceAll(local, placeholder, value)
		return true
	}

	var f, l string
	if first != "" {
		f = first[:1]
	}
	if last != "" {
		l = last[:1]
	}
	// Longer placeholders first so "{f}" never eats the front of "{first}".
	if !sub("{first}", first) || !sub("{last}", last) || !sub("{f}", f) || !sub("{l}", l) {
		return ""
	}
	if strings.ContainsAny(local, "{}") {
		return ""
	}
	if !validLocal(local) {
		return ""
	}
	return local + "@" + domain
}

// Detect reports which known template produces the given address for this
// name, or "" when none does. Used to learn a company's format from an
// already-verified address.
func Detect(email, firstName, lastName string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	domain := email[at+1:]
	for _, tpl := range templates {
		if Apply(tpl, firstName, lastName, domain) == email {
			return tpl
		}
	}
	return ""
}
