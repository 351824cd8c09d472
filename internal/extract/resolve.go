package extract

import (
	"regexp"
	"strings"
)

var (
	directDownloadRe  = regexp.MustCompile(`\.(gml|xml)(\?.*)?$`)
	contentDocumentRe = regexp.MustCompile(`/lightning/r/ContentDocument/([^/?#]+)`)
	viewSuffixRe      = regexp.MustCompile(`/view(\?.*)?$`)
)

const shepherdDownloadPath = "/sfc/servlet.shepherd/document/download/"

type urlRule struct {
	name  string
	apply func(href, origin string) (string, bool)
}

// Ordered; the first rule that applies decides the URL.
var urlRules = []urlRule{
	{"direct", func(href, _ string) (string, bool) {
		return href, directDownloadRe.MatchString(href)
	}},
	{"content-document", func(href, origin string) (string, bool) {
		m := contentDocumentRe.FindStringSubmatch(href)
		if m == nil {
			return "", false
		}
		return strings.TrimSuffix(origin, "/") + shepherdDownloadPath + m[1], true
	}},
	{"view-to-download", func(href, _ string) (string, bool) {
		if !viewSuffixRe.MatchString(href) {
			return "", false
		}
		return viewSuffixRe.ReplaceAllString(href, "/download$1"), true
	}},
}

// ResolveAttachmentURL turns an attachment link into a direct download URL.
// origin is scheme://host of the page the link was found on. Links no rule
// recognizes are returned unchanged.
func ResolveAttachmentURL(href, origin string) string {
	u, _ := ClassifyAttachmentURL(href, origin)
	return u
}

// ClassifyAttachmentURL is ResolveAttachmentURL that also reports which rule
// fired: "direct", "content-document", "view-to-download", or "" for none.
func ClassifyAttachmentURL(href, origin string) (string, string) {
	for _, r := range urlRules {
		if u, ok := r.apply(href, origin); ok {
			return u, r.name
		}
	}
	return href, ""
}
