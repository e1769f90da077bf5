package pattern

import "regexp"

// Matches reports whether text satisfies the compiled pattern anywhere
// within it (use `begins with`/`ends with` in the pattern source to anchor).
func Matches(re *regexp.Regexp, text string) bool {
	return re.MatchString(text)
}

// Captures is one match's named-group results, keyed by group name (the map
// keeps no declaration order).
type Captures struct {
	Whole  string
	Groups map[string]string
}

// Find returns the first match of re in text, or ok == false if none.
func Find(re *regexp.Regexp, text string) (Captures, bool) {
	match := re.FindStringSubmatch(text)
	if match == nil {
		return Captures{}, false
	}
	caps := Captures{Whole: match[0], Groups: make(map[string]string)}
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(match) {
			caps.Groups[name] = match[i]
		}
	}
	return caps, true
}

// Replace substitutes every match of re in text with replacement, which may
// reference named groups as `${name}` per regexp.Regexp.Expand conventions.
func Replace(re *regexp.Regexp, replacement, text string) string {
	return re.ReplaceAllString(text, replacement)
}

// Split divides text at every match of re.
func Split(re *regexp.Regexp, text string) []string {
	return re.Split(text, -1)
}
