package csvparser

import (
	"errors"
	"strings"
	"testing"

	"github.com/ginjaninja78/payment-interval-analyzer/internal/config"
	"github.com/ginjaninja78/payment-interval-analyzer/internal/types"
)

var commaSettings = config.InputSettings{Delimiter: ","}

func TestParseNormalizesHeaders(t *testing.T) {
	input := "\ufeff Payment ID ,Terminal ID,EVENT BODY,Created At\n" +
		"P1,T1,\"{\"\"status\"\": 2}\",2024-01-01T10:00:00Z\n"

	data, err := Parse(strings.NewReader(input), commaSettings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"payment id", "terminal id", "event body", "created at"}
	for i, h := range want {
		if data.Headers[i] != h {
			t.Errorf("header %d: got %q, want %q", i, data.Headers[i], h)
		}
	}

	if data.RowCount != 1 {
		t.Fatalf("expected 1 row, got %d", data.RowCount)
	}
	row := data.Rows[0]
	if row["payment id"] != "P1" {
		t.Errorf("payment id: got %q", row["payment id"])
	}
	if row["event body"] != `{"status": 2}` {
		t.Errorf("event body: got %q", row["event body"])
	}
}

func TestParseSkipsBlankLinesAndPadsShortRows(t *testing.T) {
	input := "payment id,terminal id,merchant id\n\nP1\n  ,  , \nP2,T2,M2\n"

	data, err := Parse(strings.NewReader(input), commaSettings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data.RowCount != 2 {
		t.Fatalf("expected 2 rows, got %d", data.RowCount)
	}
	if v, ok := data.Rows[0]["merchant id"]; !ok || v != "" {
		t.Errorf("short row should be padded with empty value, got %q (present=%v)", v, ok)
	}
}

func TestParseDelimiters(t *testing.T) {
	tests := []struct {
		name      string
		delimiter string
		input     string
	}{
		{"pipe", "pipe", "payment id|event body\nP1|x\n"},
		{"tab", "tab", "payment id\tevent body\nP1\tx\n"},
		{"semicolon", ";", "payment id;event body\nP1;x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Parse(strings.NewReader(tt.input), config.InputSettings{Delimiter: tt.delimiter})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if data.Rows[0]["payment id"] != "P1" || data.Rows[0]["event body"] != "x" {
				t.Errorf("unexpected row: %v", data.Rows[0])
			}
		})
	}
}

func TestParseEmptyInputIsMalformed(t *testing.T) {
	for _, input := range []string{"", "payment id,event body\n", "\n\n"} {
		_, err := Parse(strings.NewReader(input), commaSettings)
		if !errors.Is(err, types.ErrMalformedBatch) {
			t.Errorf("input %q: expected MalformedBatch, got %v", input, err)
		}
	}
}

func TestMissingColumns(t *testing.T) {
	data, err := Parse(strings.NewReader("payment id,created at\nP1,x\n"), commaSettings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	missing := data.MissingColumns(types.ColumnPaymentID, types.ColumnEventBody)
	if len(missing) != 1 || missing[0] != types.ColumnEventBody {
		t.Errorf("got %v, want [event body]", missing)
	}
}

func TestLoadPaymentIDs(t *testing.T) {
	input := "paymentId,amount\nP1,10\n,5\nP2,7\nP1,3\n"

	set, err := LoadPaymentIDs(strings.NewReader(input), commaSettings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.Len() != 2 || !set.Contains("P1") || !set.Contains("P2") {
		t.Errorf("unexpected set: %v", set)
	}
}

func TestLoadPaymentIDsRequiresExactHeader(t *testing.T) {
	_, err := LoadPaymentIDs(strings.NewReader("PaymentID\nP1\n"), commaSettings)
	if !errors.Is(err, types.ErrNoSuccessfulIDs) {
		t.Errorf("expected ErrNoSuccessfulIDs, got %v", err)
	}
}
