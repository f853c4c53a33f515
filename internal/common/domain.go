package common

import "strings"

// ReservedDomain is the fixed email suffix every OnliMess identity must use.
const ReservedDomain = "@OnliMess"

// ValidEmail reports whether addr is a non-empty address in the reserved
// domain. The address may reference an identity that is not registered yet;
// only the suffix is checked here.
func ValidEmail(addr string) bool {
	if addr == "" || addr == ReservedDomain {
		return false
	}
	return strings.HasSuffix(addr, ReservedDomain)
}
