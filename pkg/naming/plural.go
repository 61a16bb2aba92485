package naming

import "strings"

// sibilant endings take an "es" plural
var sibilantSuffixes = []string{"s", "sh", "ch", "x", "z"}

// Pluralize applies standard English pluralization rules to a resource noun:
// consonant+y becomes "ies", sibilant endings take "es", vowel+y and
// everything else take a bare "s".
//
//	Pluralize("policy") == "policies"
//	Pluralize("address") == "addresses"
//	Pluralize("cluster") == "clusters"
//	Pluralize("key") == "keys"
func Pluralize(word string) string {
	if word == "" {
		return word
	}

	lower := strings.ToLower(word)
	if strings.HasSuffix(lower, "y") && len(word) > 1 && !isVowel(lower[len(lower)-2]) {
		return word[:len(word)-1] + "ies"
	}
	for _, suffix := range sibilantSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return word + "es"
		}
	}
	return word + "s"
}

// Singularize inverts Pluralize for the fixed rule set.
//
//	Singularize("Policies") == "Policy"
//	Singularize("Addresses") == "Address"
//	Singularize("Instances") == "Instance"
func Singularize(word string) string {
	lower := strings.ToLower(word)

	if strings.HasSuffix(lower, "ies") && len(word) > 3 {
		return word[:len(word)-3] + singularYSuffix(word)
	}
	if strings.HasSuffix(lower, "es") && len(word) > 2 {
		stem := word[:len(word)-2]
		stemLower := strings.ToLower(stem)
		for _, suffix := range sibilantSuffixes {
			if strings.HasSuffix(stemLower, suffix) {
				return stem
			}
		}
	}
	if strings.HasSuffix(lower, "s") && len(word) > 1 {
		return word[:len(word)-1]
	}
	return word
}

// singularYSuffix matches the case of the stripped "ies" suffix
func singularYSuffix(word string) string {
	if strings.HasSuffix(word, "IES") {
		return "Y"
	}
	return "y"
}

// ExpectsList reports whether a parameter name suggests the operation takes
// multiple values, such as "InstanceIds" or "ClusterNames".
func ExpectsList(parameterName string) bool {
	for _, indicator := range []string{"s", "Names", "Ids", "Arns", "ARNs"} {
		if strings.HasSuffix(parameterName, indicator) {
			return true
		}
	}
	return false
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
