// Package onecall reads the customer and location sections of OneCall XML
// ticket attachments.
package onecall

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Namespace is the XML namespace of OneCall ticket documents.
const Namespace = "http://www.pelicancorp.com/onecall"

// Ticket holds the fields used to address a reply and center a map.
// Fields from an absent section are empty.
type Ticket struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Longitude string `json:"longitude"`
	Latitude  string `json:"latitude"`
}

type document struct {
	Customer *struct {
		Name  string `xml:"http://www.pelicancorp.com/onecall Name"`
		Email string `xml:"http://www.pelicancorp.com/onecall EmailAddress"`
	} `xml:"http://www.pelicancorp.com/onecall CustomerDetails"`
	Location *struct {
		Longitude string `xml:"http://www.pelicancorp.com/onecall Longitude"`
		Latitude  string `xml:"http://www.pelicancorp.com/onecall Latitude"`
	} `xml:"http://www.pelicancorp.com/onecall LocationDetails"`
}

// Parse decodes a OneCall document. Only direct children of the root
// element are consulted for the two sections.
func Parse(r io.Reader) (*Ticket, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode onecall xml: %w", err)
	}

	t := &Ticket{}
	if doc.Customer != nil {
		t.Name = strings.TrimSpace(doc.Customer.Name)
		t.Email = strings.TrimSpace(doc.Customer.Email)
	}
	if doc.Location != nil {
		t.Longitude = strings.TrimSpace(doc.Location.Longitude)
		t.Latitude = strings.TrimSpace(doc.Location.Latitude)
	}
	return t, nil
}
