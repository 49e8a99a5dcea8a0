package xmlwriter

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

type document struct {
	XMLName    xml.Name   `xml:"paymentIntervals"`
	FromStatus int        `xml:"fromStatus,attr"`
	ToStatus   int        `xml:"toStatus,attr"`
	Count      int        `xml:"count,attr"`
	Intervals  []interval `xml:"interval"`
}

type interval struct {
	N                int    `xml:"n,attr"`
	PaymentID        string `xml:"PaymentID"`
	FromStatusTime   string `xml:"FromStatusTime"`
	ToStatusTime     string `xml:"ToStatusTime"`
	TimeDifferenceMs string `xml:"TimeDifferenceMs"`
	TerminalID       string `xml:"TerminalID"`
	MerchantID       string `xml:"MerchantID"`
	Date             string `xml:"Date"`
}

func TestGenerate(t *testing.T) {
	results := []types.IntervalResult{
		{PaymentID: "P1", FromStatusTime: "t1", ToStatusTime: "t2", TimeDifferenceMs: "7000", TerminalID: "T&1", MerchantID: "<M1>", Date: "01/01/2024", FromStatus: 2, ToStatus: 8},
		{PaymentID: "P2", TimeDifferenceMs: "10", MerchantID: "line\nbreak", FromStatus: 2, ToStatus: 8},
	}

	data, err := Generate(results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data), "<?xml") {
		t.Error("missing XML declaration")
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not well-formed: %v\n%s", err, data)
	}

	if doc.FromStatus != 2 || doc.ToStatus != 8 || doc.Count != 2 {
		t.Errorf("unexpected root attributes: %+v", doc)
	}
	if len(doc.Intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(doc.Intervals))
	}

	first := doc.Intervals[0]
	if first.N != 1 || first.PaymentID != "P1" || first.TerminalID != "T&1" || first.MerchantID != "<M1>" {
		t.Errorf("unexpected first interval: %+v", first)
	}
	second := doc.Intervals[1]
	if second.N != 2 || second.TerminalID != "" || second.MerchantID != "line\nbreak" {
		t.Errorf("unexpected second interval: %+v", second)
	}
}

func TestGenerateEmpty(t *testing.T) {
	if _, err := Generate(nil); !errors.Is(err, types.ErrEmptyExport) {
		t.Errorf("expected ErrEmptyExport, got %v", err)
	}
}

func TestGenerateWithOptions(t *testing.T) {
	options := DefaultGenerateOptions()
	options.IncludeXMLDeclaration = false
	options.Indent = "\t"

	data, err := GenerateWithOptions([]types.IntervalResult{{PaymentID: "P1"}}, options)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(data), "<paymentIntervals") {
		t.Errorf("expected no declaration, got %q", data[:20])
	}
	if !strings.Contains(string(data), "\n\t<interval n=\"1\">") {
		t.Errorf("expected tab indentation:\n%s", data)
	}
	if !strings.Contains(string(data), "<TerminalID/>") {
		t.Errorf("expected self-closing empty field:\n%s", data)
	}
}

func TestEscapeXML(t *testing.T) {
	got := escapeXML(`a&b<c>"d"'e'`)
	want := "a&amp;b&lt;c&gt;&quot;d&quot;&apos;e&apos;"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEscapeXMLControlCharacters(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"P\x011", "P\uFFFD1"},
		{"a\x00b\x1fc", "a\uFFFDb\uFFFDc"},
		{"tab\there", "tab&#x9;here"},
		{"line\r\n", "line&#xD;&#xA;"},
		{"\uFFFE", "\uFFFD"},
		{"caf\u00e9 \U0001F600", "caf\u00e9 \U0001F600"},
	}

	for _, tt := range tests {
		if got := escapeXML(tt.input); got != tt.want {
			t.Errorf("escapeXML(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGenerateControlCharactersStayWellFormed(t *testing.T) {
	results := []types.IntervalResult{
		{PaymentID: "P\x01", FromStatusTime: "a", ToStatusTime: "b", TimeDifferenceMs: "1", TerminalID: "T\x1b1", MerchantID: "M\t1", Date: "01/01/2024"},
	}

	data, err := Generate(results)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not well-formed: %v\n%s", err, data)
	}
	if len(doc.Intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(doc.Intervals))
	}

	got := doc.Intervals[0]
	if got.PaymentID != "P\uFFFD" || got.TerminalID != "T\uFFFD1" || got.MerchantID != "M\t1" {
		t.Errorf("unexpected values: %+v", got)
	}
}
