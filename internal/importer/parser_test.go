package importer

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestParserNext(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []RawRow
	}{
		{
			name:  "skips the header regardless of content",
			input: "anything at all\nfood, outcome, 50, groceries\n",
			want: []RawRow{
				{Title: "food", Type: "outcome", Value: "50", Category: "groceries"},
			},
		},
		{
			name:  "blank first line still counts as the header",
			input: "\nfood,outcome,50,groceries\n",
			want: []RawRow{
				{Title: "food", Type: "outcome", Value: "50", Category: "groceries"},
			},
		},
		{
			name:  "whitespace-only first line still counts as the header",
			input: "   \nfood,outcome,50,groceries\nsalary,income,1000,work\n",
			want: []RawRow{
				{Title: "food", Type: "outcome", Value: "50", Category: "groceries"},
				{Title: "salary", Type: "income", Value: "1000", Category: "work"},
			},
		},
		{
			name:  "only the first line is skipped",
			input: "food,outcome,50,groceries\nsalary,income,1000,work\n",
			want: []RawRow{
				{Title: "salary", Type: "income", Value: "1000", Category: "work"},
			},
		},
		{
			name:  "trims every field",
			input: "title,type,value,category\n  food ,\toutcome\t, 50 ,  groceries  \n",
			want: []RawRow{
				{Title: "food", Type: "outcome", Value: "50", Category: "groceries"},
			},
		},
		{
			name:  "drops rows missing title type or value",
			input: "h,h,h,h\n,outcome,50,a\nfood,,50,a\nfood,outcome,,a\nfood,outcome,50,a\n",
			want: []RawRow{
				{Title: "food", Type: "outcome", Value: "50", Category: "a"},
			},
		},
		{
			name:  "tolerates trailing blank-ish lines",
			input: "h,h,h,h\nfood,outcome,50,a\n ,,,\n",
			want: []RawRow{
				{Title: "food", Type: "outcome", Value: "50", Category: "a"},
			},
		},
		{
			name:  "passes through non-numeric value and unknown type",
			input: "h,h,h,h\nfood,banana,abc,a\n",
			want: []RawRow{
				{Title: "food", Type: "banana", Value: "abc", Category: "a"},
			},
		},
		{
			name:  "short rows surface as empty fields and are dropped",
			input: "h,h,h,h\nfood,outcome\n",
			want:  nil,
		},
		{
			name:  "empty category passes through",
			input: "h,h,h,h\nfood,outcome,50,\n",
			want: []RawRow{
				{Title: "food", Type: "outcome", Value: "50", Category: ""},
			},
		},
		{
			name:  "header-only stream yields nothing",
			input: "title,type,value,category\n",
			want:  nil,
		},
		{
			name:  "empty stream yields nothing",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(strings.NewReader(tt.input))

			var got []RawRow
			for {
				row, err := p.Next()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					t.Fatalf("Next() error: %v", err)
				}
				got = append(got, row)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("got %d rows, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("row %d: got %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParserDrain(t *testing.T) {
	input := "title,type,value,category\nfood,outcome,50,groceries\nsalary,income,1000,work\n"

	rows, err := NewParser(strings.NewReader(input)).Drain()
	if err != nil {
		t.Fatalf("Drain() error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Title != "food" || rows[1].Title != "salary" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestParserCustomDelimiter(t *testing.T) {
	input := "title;type;value;category\nfood;outcome;50;groceries\n"

	rows, err := NewParserDelim(strings.NewReader(input), ';').Drain()
	if err != nil {
		t.Fatalf("Drain() error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Category != "groceries" {
		t.Errorf("unexpected row: %+v", rows[0])
	}
}
