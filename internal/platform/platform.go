// Package platform maps URLs to the platform that hosts their content.
package platform

import (
	"net/url"
	"strings"

	"github.com/bunchhieng/shelf/internal/model"
)

// Known platforms.
const (
	YouTube   model.Platform = "youtube"
	TikTok    model.Platform = "tiktok"
	Instagram model.Platform = "instagram"
	Twitter   model.Platform = "twitter"
	Facebook  model.Platform = "facebook"
	Reddit    model.Platform = "reddit"
	LinkedIn  model.Platform = "linkedin"
	Pinterest model.Platform = "pinterest"
	Threads   model.Platform = "threads"
	Vimeo     model.Platform = "vimeo"
	Twitch    model.Platform = "twitch"
	Medium    model.Platform = "medium"
	Substack  model.Platform = "substack"
	Webpage   model.Platform = "webpage"
)

// Default is returned when no rule matches.
const Default = Webpage

// Rule assigns Platform to any URL whose host is one of Domains or a
// subdomain of one.
type Rule struct {
	Platform model.Platform `yaml:"platform"`
	Domains  []string       `yaml:"domains"`
}

var builtin = []Rule{
	{TikTok, []string{"tiktok.com"}},
	{YouTube, []string{"youtube.com", "youtu.be", "youtube-nocookie.com"}},
	{Instagram, []string{"instagram.com", "instagr.am"}},
	{Twitter, []string{"twitter.com", "x.com", "t.co"}},
	{Facebook, []string{"facebook.com", "fb.watch", "fb.com"}},
	{Reddit, []string{"reddit.com", "redd.it"}},
	{LinkedIn, []string{"linkedin.com", "lnkd.in"}},
	{Pinterest, []string{"pinterest.com", "pin.it"}},
	{Threads, []string{"threads.net", "threads.com"}},
	{Vimeo, []string{"vimeo.com"}},
	{Twitch, []string{"twitch.tv"}},
	{Medium, []string{"medium.com"}},
	{Substack, []string{"substack.com"}},
}

// Classifier applies an ordered rule list. The zero value is not usable;
// use New.
type Classifier struct {
	rules []Rule
}

// New returns a classifier that evaluates extra before the built-in rules.
// Extra rules with an empty or Reserved platform are ignored.
func New(extra ...Rule) *Classifier {
	rules := make([]Rule, 0, len(extra)+len(builtin))
	for _, r := range extra {
		p := model.Platform(strings.ToLower(strings.TrimSpace(string(r.Platform))))
		if p == "" || Reserved(p) || len(r.Domains) == 0 {
			continue
		}
		domains := make([]string, 0, len(r.Domains))
		for _, d := range r.Domains {
			if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
				domains = append(domains, d)
			}
		}
		rules = append(rules, Rule{Platform: p, Domains: domains})
	}
	rules = append(rules, builtin...)
	return &Classifier{rules: rules}
}

// Reserved reports whether p cannot name a platform because it would read
// as the "all" scope or as a typed scope such as "tab:<id>".
func Reserved(p model.Platform) bool {
	v := strings.ToLower(strings.TrimSpace(string(p)))
	return v == "all" || strings.Contains(v, ":")
}

// Classify returns the platform of rawURL. It never fails: anything that
// cannot be parsed or matched gets Default.
func (c *Classifier) Classify(rawURL string) model.Platform {
	host := hostOf(rawURL)
	if host == "" {
		return Default
	}
	for _, r := range c.rules {
		for _, d := range r.Domains {
			if matchDomain(host, d) {
				return r.Platform
			}
		}
	}
	return Default
}

// matchDomain matches host against domain and its subdomains. Country-code
// variants match too, so youtube.com covers youtube.de and m.youtube.co.uk;
// brands shorter than four letters only match exactly.
func matchDomain(host, domain string) bool {
	if host == domain || strings.HasSuffix(host, "."+domain) {
		return true
	}
	brand, _, ok := strings.Cut(domain, ".")
	if !ok || len(brand) < 4 || strings.Count(domain, ".") != 1 {
		return false
	}
	labels := strings.Split(host, ".")
	for i, label := range labels {
		if label == brand {
			return countrySuffix(labels[i+1:])
		}
	}
	return false
}

// countrySuffix reports whether labels is a country TLD, optionally
// preceded by co or com (de, co.uk, com.br).
func countrySuffix(labels []string) bool {
	switch len(labels) {
	case 1:
		return len(labels[0]) == 2
	case 2:
		return (labels[0] == "co" || labels[0] == "com") && len(labels[1]) == 2
	default:
		return false
	}
}

// Known reports whether p is produced by one of the classifier's rules or
// is the default.
func (c *Classifier) Known(p model.Platform) bool {
	if p == Default {
		return true
	}
	for _, r := range c.rules {
		if r.Platform == p {
			return true
		}
	}
	return false
}

func hostOf(rawURL string) string {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
}
