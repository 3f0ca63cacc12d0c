package correlate

import (
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/zero-day-ai/fusion/finding"
)

// linkKeys are the evidence keys scanned for links and domains.
var linkKeys = []string{"bio", "website", "url"}

var (
	urlPattern     = regexp.MustCompile(`(?i)https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	bareWWWPattern = regexp.MustCompile(`(?i)\bwww\.([a-z0-9-]+(?:\.[a-z0-9-]+)*\.[a-z]{2,})\b`)
)

// commonDomains are hosts too widespread to tie two accounts together:
// social platforms, link shorteners and mail providers.
var commonDomains = []string{
	"twitter.com", "x.com", "facebook.com", "instagram.com", "linkedin.com",
	"youtube.com", "tiktok.com", "reddit.com", "github.com", "medium.com",
	"twitch.tv", "discord.com", "discord.gg", "telegram.org", "t.me",
	"patreon.com", "ko-fi.com", "buymeacoffee.com", "linktr.ee", "linktree.com",
	"bit.ly", "goo.gl", "t.co", "youtu.be", "fb.me", "wa.me",
	"gmail.com", "yahoo.com", "outlook.com", "hotmail.com", "protonmail.com",
	"icloud.com", "aol.com", "live.com", "msn.com", "mail.com",
}

func isCommonDomain(host string) bool {
	for _, c := range commonDomains {
		if host == c || strings.HasSuffix(host, "."+c) {
			return true
		}
	}
	return false
}

// sharedEvidence links findings carrying the same normalized value under
// key.
func sharedEvidence(findings []finding.Finding, key, reason string) []Correlation {
	return sharedValues(findings, reason, func(f *finding.Finding) []string {
		values := f.EvidenceValues(key)
		for i, v := range values {
			values[i] = strings.ToLower(strings.TrimSpace(v))
		}
		return values
	})
}

// sharedLinks links findings whose bio, website or url evidence contains
// the same link.
func sharedLinks(findings []finding.Finding) []Correlation {
	return sharedValues(findings, ReasonSharedLink, func(f *finding.Finding) []string {
		links, _ := extractLinks(f)
		return links
	})
}

// sharedDomains links findings whose links point at the same uncommon
// domain.
func sharedDomains(findings []finding.Finding) []Correlation {
	return sharedValues(findings, ReasonSharedDomain, func(f *finding.Finding) []string {
		_, domains := extractLinks(f)
		return domains
	})
}

// extractLinks returns the normalized links and the uncommon domains found
// in f's link-bearing evidence.
func extractLinks(f *finding.Finding) (links, domains []string) {
	addDomain := func(host string) {
		host = strings.TrimPrefix(strings.ToLower(host), "www.")
		if host == "" || !strings.Contains(host, ".") || isCommonDomain(host) {
			return
		}
		if !slices.Contains(domains, host) {
			domains = append(domains, host)
		}
	}

	for _, text := range f.EvidenceValues(linkKeys...) {
		for _, raw := range urlPattern.FindAllString(text, -1) {
			raw = strings.TrimRight(raw, ".,;:!?)")
			u, err := url.Parse(raw)
			if err != nil || u.Host == "" {
				continue
			}
			link := strings.ToLower(u.Hostname()) + strings.TrimSuffix(u.EscapedPath(), "/")
			link = strings.TrimPrefix(link, "www.")
			if !slices.Contains(links, link) {
				links = append(links, link)
			}
			addDomain(u.Hostname())
		}
		for _, m := range bareWWWPattern.FindAllStringSubmatch(text, -1) {
			addDomain(m[1])
		}
	}
	return links, domains
}

// sharedValues groups findings by the values extract returns and links the
// members of every group of two or more. Each finding yields at most one
// correlation per reason.
func sharedValues(findings []finding.Finding, reason string, extract func(*finding.Finding) []string) []Correlation {
	var values []string
	groups := map[string][]string{}
	for i := range findings {
		f := &findings[i]
		for _, v := range extract(f) {
			if v == "" {
				continue
			}
			ids, ok := groups[v]
			if !ok {
				values = append(values, v)
			}
			if !slices.Contains(ids, f.ID) {
				groups[v] = append(ids, f.ID)
			}
		}
	}

	var order []string
	byID := map[string]*Correlation{}
	for _, v := range values {
		ids := groups[v]
		if len(ids) < 2 {
			continue
		}
		for _, id := range ids {
			c, ok := byID[id]
			if !ok {
				c = &Correlation{FindingID: id, Reason: reason}
				byID[id] = c
				order = append(order, id)
			}
			for _, other := range ids {
				if other != id && !slices.Contains(c.RelatedIDs, other) {
					c.RelatedIDs = append(c.RelatedIDs, other)
				}
			}
		}
	}

	out := make([]Correlation, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	return out
}
