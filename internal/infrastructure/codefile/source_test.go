package codefile

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"codedrop/internal/domain"
)

func TestParseCSV(t *testing.T) {
	in := "\ufeffAAA-111,note\nBBB-222\n\n  CCC-333 ,x,y\n"
	got, err := ParseCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseCSV() error = %v", err)
	}
	want := []string{"AAA-111", "BBB-222", "CCC-333"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseCSV() = %q, want %q", got, want)
	}
}

func xlsxBytes(t *testing.T, cells map[string]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for cell, v := range cells {
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatalf("SetCellValue(%s) error = %v", cell, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() error = %v", err)
	}
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	data := xlsxBytes(t, map[string]string{"A1": "X1", "B1": "ignored", "A2": "X2", "A3": "X3"})
	got, err := ParseXLSX(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseXLSX() error = %v", err)
	}
	want := []string{"X1", "X2", "X3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseXLSX() = %q, want %q", got, want)
	}
}

func TestFetch(t *testing.T) {
	xlsx := xlsxBytes(t, map[string]string{"A1": "ONE", "A2": "TWO"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/codes.csv":
			_, _ = w.Write([]byte("C1\nC2\nC3\n"))
		case "/codes.xlsx":
			_, _ = w.Write(xlsx)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewSource(srv.Client())
	tests := []struct {
		name     string
		filename string
		path     string
		want     []string
		wantErr  bool
	}{
		{name: "csv", filename: "codes.csv", path: "/codes.csv", want: []string{"C1", "C2", "C3"}},
		{name: "xlsx", filename: "Codes.XLSX", path: "/codes.xlsx", want: []string{"ONE", "TWO"}},
		{name: "missing", filename: "codes.csv", path: "/missing", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Fetch(context.Background(), tt.filename, srv.URL+tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Fetch() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, domain.ErrCodeFileUnreadable) {
					t.Errorf("Fetch() error = %v, want ErrCodeFileUnreadable", err)
				}
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Fetch() = %q, want %q", got, tt.want)
			}
		})
	}
}
