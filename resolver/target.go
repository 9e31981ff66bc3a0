package resolver

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type TargetType string

//closed enumeration of record target kinds
const (
	TargetTypeURL     TargetType = "url"
	TargetTypeIPFS    TargetType = "ipfs"
	TargetTypeArweave TargetType = "arweave"
)

//target grammars are contractual: stored records were validated against
//these exact patterns at mint time
var (
	ipfsPattern    = regexp.MustCompile(`^(ipfs://)?(Qm[1-9A-HJ-NP-Za-km-z]{44}|bafy[1-9A-HJ-NP-Za-km-z]{20,})$`)
	arweavePattern = regexp.MustCompile(`^(ar://)?[a-zA-Z0-9_-]{43,64}$`)
)

const (
	httpsScheme = "https://"
	//max length of the part after the scheme, from the mint-time grammar
	//`^https://.{1,2040}$`. regexp caps repeat counts at 1000, so the
	//bound is enforced outside the pattern.
	maxURLTailLength = 2040
)

//isValidHTTPSURL mirrors `^https://.{1,2040}$`: `.` excludes newlines
//and counts runes
func isValidHTTPSURL(value string) bool {
	if !strings.HasPrefix(value, httpsScheme) {
		return false
	}

	tail := value[len(httpsScheme):]
	if tail == "" || strings.ContainsRune(tail, '\n') {
		return false
	}

	return utf8.RuneCountInString(tail) <= maxURLTailLength
}

func NormalizeTarget(input string) string {
	return strings.TrimSpace(input)
}

//IsValidTarget checks the target against the format grammar of its
//declared type. Unknown types are always invalid.
func IsValidTarget(targetType TargetType, target string) bool {
	normalized := NormalizeTarget(target)
	switch targetType {
	case TargetTypeIPFS:
		return ipfsPattern.MatchString(normalized)
	case TargetTypeArweave:
		return arweavePattern.MatchString(normalized)
	case TargetTypeURL:
		return isValidHTTPSURL(normalized)
	default:
		return false
	}
}

//DestinationURL normalizes a validated target into its destination uri.
//Idempotent: re-normalizing an already prefixed value is a no-op.
func DestinationURL(targetType TargetType, target string) string {
	normalized := NormalizeTarget(target)
	switch targetType {
	case TargetTypeIPFS:
		if strings.HasPrefix(normalized, "ipfs://") {
			return normalized
		}
		return "ipfs://" + normalized
	case TargetTypeArweave:
		if strings.HasPrefix(normalized, "ar://") {
			return normalized
		}
		return "ar://" + normalized
	default:
		return normalized
	}
}
