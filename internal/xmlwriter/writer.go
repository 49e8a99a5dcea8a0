// =============================================================================
// Payment Interval Analyzer - XML Writer Module
// =============================================================================
//
// Renders interval results as an XML document, an alternate export format for
// systems that ingest XML rather than delimited text.
//
// XML STRUCTURE:
//
//   <paymentIntervals fromStatus="2" toStatus="8" count="2">
//     <interval n="1">
//       <PaymentID>P1</PaymentID>
//       <FromStatusTime>2024-01-01T10:00:00Z</FromStatusTime>
//       <ToStatusTime>2024-01-01T10:00:07Z</ToStatusTime>
//       <TimeDifferenceMs>7000</TimeDifferenceMs>
//       <TerminalID>T1</TerminalID>
//       <MerchantID>M1</MerchantID>
//       <Date>01/01/2024</Date>
//     </interval>
//     ...
//   </paymentIntervals>
//
// Empty fields are written as self-closing elements so every interval carries
// the same set of children.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// RootElement is the name of the document element.
	// Default: "paymentIntervals"
	RootElement string

	// IntervalElement is the name of each result element.
	// Default: "interval"
	IntervalElement string

	// IndexAttribute is the attribute carrying the 1-based result index.
	// Default: "n"
	IndexAttribute string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootElement:           "paymentIntervals",
		IntervalElement:       "interval",
		IndexAttribute:        "n",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from the results.
//
// PARAMETERS:
//   - results: The (usually filtered) interval results.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - types.ErrEmptyExport when there is nothing to render.
func Generate(results []types.IntervalResult) ([]byte, error) {
	return GenerateWithOptions(results, DefaultGenerateOptions())
}

// GenerateWithOptions creates an XML document with custom options.
func GenerateWithOptions(results []types.IntervalResult, options GenerateOptions) ([]byte, error) {
	if len(results) == 0 {
		return nil, types.NewBatchError(types.ConditionEmptyExport, "no results to export", nil)
	}

	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	root := buildDocument(results, options)
	writeElement(&buffer, root, options.Indent, 0)

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildDocument constructs the document element. Status attributes come from
// the first result; a result set always shares one status pair.
func buildDocument(results []types.IntervalResult, options GenerateOptions) XMLElement {
	doc := XMLElement{
		XMLName: xml.Name{Local: options.RootElement},
		Attributes: []xml.Attr{
			attr("fromStatus", strconv.Itoa(results[0].FromStatus)),
			attr("toStatus", strconv.Itoa(results[0].ToStatus)),
			attr("count", strconv.Itoa(len(results))),
		},
	}

	for i, r := range results {
		doc.Children = append(doc.Children, buildIntervalElement(r, i+1, options))
	}

	return doc
}

// buildIntervalElement constructs one interval element.
//
// STRUCTURE:
//   <interval n="1">
//     <PaymentID>P1</PaymentID>
//     ...
//   </interval>
func buildIntervalElement(r types.IntervalResult, index int, options GenerateOptions) XMLElement {
	return XMLElement{
		XMLName:    xml.Name{Local: options.IntervalElement},
		Attributes: []xml.Attr{attr(options.IndexAttribute, strconv.Itoa(index))},
		Children: []XMLElement{
			createSimpleElement("PaymentID", r.PaymentID),
			createSimpleElement("FromStatusTime", r.FromStatusTime),
			createSimpleElement("ToStatusTime", r.ToStatusTime),
			createSimpleElement("TimeDifferenceMs", r.TimeDifferenceMs),
			createSimpleElement("TerminalID", r.TerminalID),
			createSimpleElement("MerchantID", r.MerchantID),
			createSimpleElement("Date", r.Date),
		},
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, a := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", a.Name.Local, escapeXML(a.Value)))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")

		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}

		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML. Runes outside the XML Char
// production are replaced with U+FFFD.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		case '\n':
			buffer.WriteString("&#xA;")
		case '\r':
			buffer.WriteString("&#xD;")
		case '\t':
			buffer.WriteString("&#x9;")
		default:
			if !isXMLChar(r) {
				r = '\uFFFD'
			}
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// isXMLChar reports whether r may appear in an XML 1.0 document.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}
