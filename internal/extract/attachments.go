package extract

import (
	"net/url"
	"strings"

	"github.com/dgallion1/ticketgest/internal/docmodel"
)

// AttachmentListSelector matches the record's attachment lists; the page may
// keep one per tab, only the active one visible.
const AttachmentListSelector = "ul.uiAbstractList"

const (
	attachmentLinkSelector  = "li a"
	attachmentTitleSelector = ".itemTitle"
)

var attachmentExtensions = map[string]bool{"gml": true, "xml": true}

// ExtractAttachments lists the .gml and .xml attachments of the visible
// attachment list with their download URLs, in document order. Links without
// an href are skipped. With no visible list it returns an empty slice and ErrNotFound.
func ExtractAttachments(doc *docmodel.Document) ([]AttachmentItem, error) {
	items := []AttachmentItem{}
	list, ok := docmodel.FirstVisible(doc.Query(AttachmentListSelector))
	if !ok {
		return items, ErrNotFound
	}

	origin := doc.Origin()
	for _, link := range list.Query(attachmentLinkSelector) {
		titles := link.Query(attachmentTitleSelector)
		if len(titles) == 0 {
			continue
		}
		name := strings.TrimSpace(titles[0].InnerText())
		if !attachmentExtensions[fileExtension(name)] {
			continue
		}
		raw, ok := link.Attr("href")
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		href := doc.ResolveURL(raw)
		o := origin
		if o == "" {
			o = originOf(href)
		}
		items = append(items, AttachmentItem{
			Filename: name,
			URL:      ResolveAttachmentURL(href, o),
		})
	}
	return items, nil
}

// fileExtension is the lower-cased text after the last dot. A name without a
// dot is its own extension.
func fileExtension(name string) string {
	return strings.ToLower(name[strings.LastIndex(name, ".")+1:])
}

func originOf(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
