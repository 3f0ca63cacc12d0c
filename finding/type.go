package finding

import (
	"fmt"
	"strings"
)

// Type classifies what a finding is about.
type Type string

const (
	// TypeBreach indicates the entity appears in a data breach or credential leak.
	TypeBreach Type = "breach"

	// TypeIdentity indicates identity attributes (names, addresses, relatives).
	TypeIdentity Type = "identity"

	// TypeDomainReputation indicates reputation or blocklist status of a domain.
	TypeDomainReputation Type = "domain_reputation"

	// TypeDomainTech indicates technology, hosting or DNS details of a domain.
	TypeDomainTech Type = "domain_tech"

	// TypeIPExposure indicates open services, proxies or abuse history of an IP.
	TypeIPExposure Type = "ip_exposure"

	// TypePhoneIntelligence indicates carrier, line type or fraud data for a phone number.
	TypePhoneIntelligence Type = "phone_intelligence"

	// TypeSocialMedia indicates a discovered social media account.
	TypeSocialMedia Type = "social_media"

	// TypePeopleSearch indicates a people-search or data broker listing.
	TypePeopleSearch Type = "people_search"

	// TypeUsername indicates a username hit on a site without a richer classification.
	TypeUsername Type = "username"

	// TypeEmail indicates email validation or deliverability intelligence.
	TypeEmail Type = "email"

	// TypePaste indicates the entity appears in a public paste.
	TypePaste Type = "paste"

	// TypeDarkWeb indicates a dark web marketplace or forum mention.
	TypeDarkWeb Type = "dark_web"

	// TypeOther is used by normalizers that cannot classify a result.
	TypeOther Type = "other"
)

// domainPrefix marks the domain_* family of types used by correlation.
const domainPrefix = "domain_"

// IsValid returns true if the type is one of the known types.
func (t Type) IsValid() bool {
	switch t {
	case TypeBreach,
		TypeIdentity,
		TypeDomainReputation,
		TypeDomainTech,
		TypeIPExposure,
		TypePhoneIntelligence,
		TypeSocialMedia,
		TypePeopleSearch,
		TypeUsername,
		TypeEmail,
		TypePaste,
		TypeDarkWeb,
		TypeOther:
		return true
	default:
		return false
	}
}

// IsDomain reports whether the type belongs to the domain_* family.
func (t Type) IsDomain() bool {
	return strings.HasPrefix(string(t), domainPrefix)
}

// String returns the string representation of the type.
func (t Type) String() string {
	return string(t)
}

// DisplayName returns a human-readable display name for the type.
func (t Type) DisplayName() string {
	switch t {
	case TypeBreach:
		return "Data Breach"
	case TypeIdentity:
		return "Identity"
	case TypeDomainReputation:
		return "Domain Reputation"
	case TypeDomainTech:
		return "Domain Technology"
	case TypeIPExposure:
		return "IP Exposure"
	case TypePhoneIntelligence:
		return "Phone Intelligence"
	case TypeSocialMedia:
		return "Social Media"
	case TypePeopleSearch:
		return "People Search"
	case TypeUsername:
		return "Username"
	case TypeEmail:
		return "Email"
	case TypePaste:
		return "Paste"
	case TypeDarkWeb:
		return "Dark Web"
	case TypeOther:
		return "Other"
	default:
		return string(t)
	}
}

// ParseType parses a string into a Type value.
// Returns an error if the string is not a known type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid finding type: %s", s)
	}
	return t, nil
}

// AllTypes returns all known types.
func AllTypes() []Type {
	return []Type{
		TypeBreach,
		TypeIdentity,
		TypeDomainReputation,
		TypeDomainTech,
		TypeIPExposure,
		TypePhoneIntelligence,
		TypeSocialMedia,
		TypePeopleSearch,
		TypeUsername,
		TypeEmail,
		TypePaste,
		TypeDarkWeb,
		TypeOther,
	}
}
