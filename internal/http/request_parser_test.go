package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"networth/internal/core"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{name: "missing", query: "", want: 0},
		{name: "explicit", query: "?limit=12", want: 12},
		{name: "zero", query: "?limit=0", want: 0},
		{name: "padded", query: "?limit=%207", want: 7},
		{name: "negative", query: "?limit=-1", wantErr: true},
		{name: "not a number", query: "?limit=ten", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/totals/history"+tt.query, nil)
			got, err := ParseLimit(r)
			if tt.wantErr {
				if !errors.Is(err, errBadRequest) {
					t.Fatalf("ParseLimit() error = %v, want errBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLimit() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{value: "1", want: 1},
		{value: "9000000000", want: 9000000000},
		{value: "0", wantErr: true},
		{value: "-4", wantErr: true},
		{value: "abc", wantErr: true},
		{value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodDelete, "/", nil)
			r.SetPathValue("id", tt.value)
			got, err := ParseID(r, "id")
			if tt.wantErr {
				if !errors.Is(err, errBadRequest) {
					t.Fatalf("ParseID(%q) error = %v, want errBadRequest", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseID(%q) unexpected error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseDatePath(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.SetPathValue("date", "2024-03-01")
	got, err := ParseDatePath(r, "date")
	if err != nil {
		t.Fatalf("ParseDatePath() unexpected error: %v", err)
	}
	if got != core.NewDate(2024, 3, 1) {
		t.Errorf("ParseDatePath() = %s, want 2024-03-01", got)
	}

	r.SetPathValue("date", "March")
	if _, err := ParseDatePath(r, "date"); !errors.Is(err, errBadRequest) {
		t.Errorf("ParseDatePath(March) error = %v, want errBadRequest", err)
	}
}

func TestDecodeDated(t *testing.T) {
	body := `{"date":"2024-01-01","saver":"100.50","highInterest":25}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()

	date, raw, err := DecodeDated[core.CashAccounts](w, r)
	if err != nil {
		t.Fatalf("DecodeDated() unexpected error: %v", err)
	}
	if date != core.NewDate(2024, 1, 1) {
		t.Errorf("date = %s, want 2024-01-01", date)
	}
	if raw.Saver.String() != "100.5" || raw.HighInterest.String() != "25" {
		t.Errorf("raw = %+v", raw)
	}
}

func TestDecodeDated_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "whitespace body", body: "  \n"},
		{name: "missing date", body: `{"saver":"1"}`},
		{name: "invalid date", body: `{"date":"yesterday","saver":"1"}`},
		{name: "invalid amount", body: `{"date":"2024-01-01","saver":"lots"}`},
		{name: "not an object", body: `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			_, _, err := DecodeDated[core.CashAccounts](httptest.NewRecorder(), r)
			if !errors.Is(err, errBadRequest) {
				t.Errorf("DecodeDated() error = %v, want errBadRequest", err)
			}
		})
	}
}

func TestDecodeJSON_BodyTooLarge(t *testing.T) {
	body := `{"saver":"` + strings.Repeat("9", MaxBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var raw core.CashAccounts
	if err := DecodeJSON(httptest.NewRecorder(), r, &raw); !errors.Is(err, errBadRequest) {
		t.Errorf("DecodeJSON() error = %v, want errBadRequest", err)
	}
}
