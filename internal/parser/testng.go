package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ldptw/internal/domain"
)

// TestNGParser reads testng-results.xml reports
type TestNGParser struct{}

var _ Parser = (*TestNGParser)(nil)

// NewTestNGParser creates a new TestNGParser
func NewTestNGParser() *TestNGParser {
	return &TestNGParser{}
}

type xmlException struct {
	Class   string `xml:"class,attr"`
	Message string `xml:"message"`
}

type xmlTestMethod struct {
	Status      string        `xml:"status,attr"`
	Name        string        `xml:"name,attr"`
	Description string        `xml:"description,attr"`
	DescText    string        `xml:"description"`
	Signature   string        `xml:"signature,attr"`
	DurationMS  string        `xml:"duration-ms,attr"`
	Exception   *xmlException `xml:"exception"`
}

// ParseFile parses the report at path
func (p *TestNGParser) ParseFile(path string) (*domain.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	report, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	report.Path = path
	return report, nil
}

// Parse collects every test-method element, at any depth, in document order.
// Each method takes its class from the closest enclosing class element.
func (p *TestNGParser) Parse(r io.Reader) (*domain.Report, error) {
	dec := xml.NewDecoder(r)
	report := &domain.Report{}
	var classes []string

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "class":
				classes = append(classes, attr(t, "name"))
			case "test-method":
				var raw xmlTestMethod
				if err := dec.DecodeElement(&raw, &t); err != nil {
					return nil, err
				}
				method := convert(raw)
				if len(classes) > 0 {
					method.Class = classes[len(classes)-1]
				}
				report.Methods = append(report.Methods, method)
			}
		case xml.EndElement:
			if t.Name.Local == "class" && len(classes) > 0 {
				classes = classes[:len(classes)-1]
			}
		}
	}

	return report, nil
}

func convert(raw xmlTestMethod) domain.TestMethod {
	method := domain.TestMethod{
		Name:        raw.Name,
		Description: raw.Description,
		Signature:   raw.Signature,
		Status:      domain.Status(strings.ToUpper(strings.TrimSpace(raw.Status))),
	}
	if method.Description == "" {
		method.Description = strings.TrimSpace(raw.DescText)
	}
	if ms, err := strconv.ParseInt(raw.DurationMS, 10, 64); err == nil {
		method.DurationMS = ms
	}
	if raw.Exception != nil {
		method.Exception = &domain.Exception{
			Class:   raw.Exception.Class,
			Message: strings.TrimSpace(raw.Exception.Message),
		}
	}
	return method
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
