package render

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/GregMSThompson/dashboard-builder/internal/models"
)

// goldmark leaves raw HTML out of its output unless html.WithUnsafe is set.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

const defaultSandbox = "allow-scripts allow-same-origin"

// blockedTags never survive sanitising.
const blockedTags = "script, style, iframe, object, embed, link, meta, base, form"

// renderText joins every record's content. Markdown is converted unless the
// widget turned it off.
func renderText(c models.Component, rows []map[string]any) *VNode {
	key := TextContentKeys.Pick(rows[0])
	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		if s, ok := row[key].(string); ok && strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	src := strings.Join(parts, "\n\n")
	props := Props{
		"contentKey": key,
		"alignment":  configString(c.Config, "alignment", "left"),
	}

	if !configBool(c.Config, "markdown", true) {
		return El(TagContent, props, Text(src))
	}
	html, err := Markdown(src)
	if err != nil {
		return El(TagContent, props, Text(src))
	}
	return El(TagContent, props, Raw(html))
}

// Markdown renders GitHub-flavoured markdown to HTML with raw HTML stripped.
func Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderImage(c models.Component, rows []map[string]any) *VNode {
	row := rows[0]
	urlKey := ImageURLKeys.Pick(row)
	src, _ := row[urlKey].(string)
	alt, _ := row[ImageAltKeys.Pick(row)].(string)

	props := Props{
		"src": safeURL(src),
		"alt": alt,
		"fit": configString(c.Config, "fit", "contain"),
	}
	if len(rows) > 1 {
		gallery := make([]string, 0, len(rows))
		for _, r := range rows {
			if s, ok := r[urlKey].(string); ok && safeURL(s) != "" {
				gallery = append(gallery, s)
			}
		}
		props["gallery"] = gallery
	}
	return El(TagImage, props)
}

func renderIframe(c models.Component, rows []map[string]any) *VNode {
	row := rows[0]
	src, _ := row[IframeURLKeys.Pick(row)].(string)
	props := Props{
		"src":             safeURL(src),
		"allowFullscreen": configBool(c.Config, "allowFullscreen", false),
	}
	// sandbox is either a flag or an explicit token list
	switch sb := c.Config["sandbox"].(type) {
	case string:
		props["sandbox"] = sb
	case bool:
		if sb {
			props["sandbox"] = defaultSandbox
		}
	default:
		props["sandbox"] = defaultSandbox
	}
	return El(TagIframe, props)
}

func renderCustomHTML(c models.Component, rows []map[string]any) *VNode {
	key := HTMLKeys.Pick(rows[0])
	var b strings.Builder
	for _, row := range rows {
		if s, ok := row[key].(string); ok {
			b.WriteString(s)
		}
	}
	src := b.String()
	if !configBool(c.Config, "sanitize", true) {
		return El(TagContent, Props{"htmlKey": key}, Raw(src))
	}
	clean, err := Sanitize(src)
	if err != nil {
		return El(TagContent, Props{"htmlKey": key}, Text(src))
	}
	return El(TagContent, Props{"htmlKey": key, "sanitized": true}, Raw(clean))
}

// Sanitize drops active content from an HTML fragment: blocked elements,
// event-handler attributes and javascript: links.
func Sanitize(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	doc.Find(blockedTags).Remove()
	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		var drop []string
		for _, a := range s.Nodes[0].Attr {
			key := strings.ToLower(a.Key)
			switch {
			case strings.HasPrefix(key, "on"):
				drop = append(drop, a.Key)
			case key == "href" || key == "src" || key == "action" || key == "formaction":
				if safeURL(a.Val) == "" && !isRelative(a.Val) {
					drop = append(drop, a.Key)
				}
			}
		}
		for _, k := range drop {
			s.RemoveAttr(k)
		}
	})
	return doc.Find("body").Html()
}

// safeURL returns u when it is an absolute http(s) URL, else "".
func safeURL(u string) string {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return u
}

func isRelative(u string) bool {
	parsed, err := url.Parse(strings.TrimSpace(u))
	return err == nil && parsed.Scheme == "" && parsed.Host == ""
}
