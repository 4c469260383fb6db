package service

import (
	"strings"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

const defaultPhoneRegion = "US"

var idnaProfile = idna.Lookup

// normalizeEmail trims the address and rewrites an internationalized domain to
// its ASCII form. Addresses that cannot be converted are kept trimmed.
func normalizeEmail(raw string) string {
	email := strings.TrimSpace(raw)
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return email
	}

	domain := email[at+1:]
	if isASCII(domain) {
		return email
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return email
	}
	return email[:at+1] + asciiDomain
}

// normalizePhone returns the E164 form of raw, or nil when it does not parse
// as a valid number for region.
func normalizePhone(raw, region string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if region == "" {
		region = defaultPhoneRegion
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return nil
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return nil
	}
	formatted := phonenumbers.Format(number, phonenumbers.E164)
	return &formatted
}

// normalizeOrgName trims and collapses inner whitespace.
func normalizeOrgName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
