package query

import (
	"math"
	"testing"
)

func TestParseOrderBy(t *testing.T) {
	columns := []string{"title", "start_date", "status"}

	tests := []struct {
		name    string
		orderBy string
		want    Sort
		wantOK  bool
	}{
		{"ascending", "title-asc", Sort{Column: "title", Direction: Asc}, true},
		{"descending upper case", "START_DATE-DESC", Sort{Column: "start_date", Direction: Desc}, true},
		{"unknown column", "password-asc", Sort{}, false},
		{"unknown direction", "title-up", Sort{}, false},
		{"missing direction", "title", Sort{}, false},
		{"too many parts", "title-asc-desc", Sort{}, false},
		{"empty", "", Sort{}, false},
		{"legacy numeric default", "10", Sort{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseOrderBy(tt.orderBy, columns)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name          string
		page, perPage int
		want          Page
	}{
		{"defaults", 0, 0, Page{Number: 1, PerPage: 10}},
		{"explicit", 3, 25, Page{Number: 3, PerPage: 25}},
		{"capped", 1, 1000, Page{Number: 1, PerPage: 100}},
		{"negative", -2, -5, Page{Number: 1, PerPage: 10}},
		{"huge page", math.MaxInt, 100, Page{Number: MaxPage, PerPage: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePage(tt.page, tt.perPage, DefaultPerPage, MaxPerPage)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPaginate_HugePageStaysEmpty(t *testing.T) {
	page := NormalizePage(math.MaxInt, MaxPerPage, DefaultPerPage, MaxPerPage)
	if page.Offset() < 0 {
		t.Fatalf("offset overflowed: %d", page.Offset())
	}
	meta := Paginate(3, page)
	if meta.From != 0 || meta.To != 0 || meta.LastPage != 1 {
		t.Errorf("unexpected meta %+v", meta)
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name  string
		total int
		page  Page
		want  Meta
	}{
		{
			name:  "first of three pages",
			total: 25,
			page:  Page{Number: 1, PerPage: 10},
			want:  Meta{CurrentPage: 1, PerPage: 10, Total: 25, LastPage: 3, From: 1, To: 10},
		},
		{
			name:  "last partial page",
			total: 25,
			page:  Page{Number: 3, PerPage: 10},
			want:  Meta{CurrentPage: 3, PerPage: 10, Total: 25, LastPage: 3, From: 21, To: 25},
		},
		{
			name:  "empty result",
			total: 0,
			page:  Page{Number: 1, PerPage: 10},
			want:  Meta{CurrentPage: 1, PerPage: 10, Total: 0, LastPage: 1},
		},
		{
			name:  "past the end",
			total: 5,
			page:  Page{Number: 4, PerPage: 10},
			want:  Meta{CurrentPage: 4, PerPage: 10, Total: 5, LastPage: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Paginate(tt.total, tt.page); got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
