// Package sitesettings injects site-wide head settings into rendered pages.
package sitesettings

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ziadkadry99/pagebuilder/internal/config"
)

// captchaTrigger marks pages whose forms need the captcha script.
const captchaTrigger = "recaptchaResponse"

// Settings are the site-wide values merged into every page. Empty values
// are skipped.
type Settings struct {
	Keywords      string
	Description   string
	MetaTags      string
	HeadHTML      string
	AnalyticsCode string
	// GTMContainer is a Google Tag Manager container id such as GTM-ABC123.
	GTMContainer  string
	CaptchaScript string
}

// FromConfig converts the site section of the configuration.
func FromConfig(c config.SiteConfig) Settings {
	return Settings{
		Keywords:      c.Keywords,
		Description:   c.Description,
		MetaTags:      c.MetaTags,
		HeadHTML:      c.HeadHTML,
		AnalyticsCode: c.AnalyticsCode,
		GTMContainer:  c.GTMCode,
		CaptchaScript: c.CaptchaScript,
	}
}

// IsZero reports whether no setting is set.
func (s Settings) IsZero() bool { return s == Settings{} }

var (
	keywordsMeta    = regexp.MustCompile(`<meta\s+?name="keywords"\s+?content="([^"]+?)"\s+?/>`)
	descriptionMeta = regexp.MustCompile(`<meta\s+?name="description"\s+?content="([^"]+?)"\s+?/>`)
	bodyOpen        = regexp.MustCompile(`(<body[^>]*?>)`)
)

// Apply merges the settings into a page. Each snippet is added only when the
// page does not already contain it, so Apply is idempotent.
func Apply(page string, s Settings) string {
	if s.IsZero() {
		return page
	}
	if s.CaptchaScript != "" && strings.Contains(page, captchaTrigger) && !strings.Contains(page, s.CaptchaScript) {
		page = beforeHeadClose(page, s.CaptchaScript)
	}
	for _, snippet := range []string{s.MetaTags, s.HeadHTML, s.AnalyticsCode} {
		if snippet != "" && !strings.Contains(page, snippet) {
			page = beforeHeadClose(page, snippet)
		}
	}
	page = mergeMeta(page, "keywords", s.Keywords, keywordsMeta)
	page = mergeMeta(page, "description", s.Description, descriptionMeta)
	if s.GTMContainer != "" && !strings.Contains(page, s.GTMContainer) {
		page = strings.Replace(page, "</title>", "</title>"+gtmHead(s.GTMContainer), 1)
		page = replaceFirst(bodyOpen, page, "${1}"+gtmNoScript(s.GTMContainer))
	}
	return page
}

func beforeHeadClose(page, snippet string) string {
	return strings.Replace(page, "</head>", snippet+"</head>", 1)
}

// mergeMeta prepends value to an existing meta tag's content, or inserts a
// new meta tag before <title>.
func mergeMeta(page, name, value string, existing *regexp.Regexp) string {
	if value == "" {
		return page
	}
	escaped := html.EscapeString(value)
	if strings.Contains(page, escaped) {
		return page
	}
	if m := existing.FindStringSubmatchIndex(page); m != nil {
		merged := fmt.Sprintf(`<meta name="%s" content="%s, %s" />`, name, escaped, page[m[2]:m[3]])
		return page[:m[0]] + merged + page[m[1]:]
	}
	return strings.Replace(page, "<title>", fmt.Sprintf(`<meta name="%s" content="%s" /><title>`, name, escaped), 1)
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return s
	}
	var dst []byte
	dst = re.ExpandString(dst, repl, s, m)
	return s[:m[0]] + string(dst) + s[m[1]:]
}

func gtmHead(id string) string {
	id = html.EscapeString(id)
	return `<!-- Google Tag Manager --><script>(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':` +
		`new Date().getTime(),event:'gtm.js'});var f=d.getElementsByTagName(s)[0],` +
		`j=d.createElement(s),dl=l!='dataLayer'?'&l='+l:'';j.async=true;j.src=` +
		`'https://www.googletagmanager.com/gtm.js?id='+i+dl;f.parentNode.insertBefore(j,f);` +
		`})(window,document,'script','dataLayer','` + id + `');</script><!-- End Google Tag Manager -->`
}

func gtmNoScript(id string) string {
	return `<!-- Google Tag Manager (noscript) --><noscript><iframe src="https://www.googletagmanager.com/ns.html?id=` +
		html.EscapeString(id) + `" height="0" width="0" style="display:none;visibility:hidden"></iframe></noscript><!-- End Google Tag Manager (noscript) -->`
}
