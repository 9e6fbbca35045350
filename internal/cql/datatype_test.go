package cql

import (
	"reflect"
	"testing"
)

func TestParseDataType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected DataType
		wantErr  bool
	}{
		{
			name:     "simple text",
			input:    "text",
			expected: DataType{Base: "text"},
		},
		{
			name:     "case folded",
			input:    "BigInt",
			expected: DataType{Base: "bigint"},
		},
		{
			name:     "frozen text",
			input:    "frozen<text>",
			expected: DataType{Base: "text", Frozen: true},
		},
		{
			name:  "list of int",
			input: "list<int>",
			expected: DataType{Base: "list", Params: []DataType{
				{Base: "int"},
			}},
		},
		{
			name:  "set of uuid",
			input: "set<uuid>",
			expected: DataType{Base: "set", Params: []DataType{
				{Base: "uuid"},
			}},
		},
		{
			name:  "map",
			input: "map<text, int>",
			expected: DataType{Base: "map", Params: []DataType{
				{Base: "text"}, {Base: "int"},
			}},
		},
		{
			name:  "map without spaces",
			input: "map<text,int>",
			expected: DataType{Base: "map", Params: []DataType{
				{Base: "text"}, {Base: "int"},
			}},
		},
		{
			name:  "nested frozen map in list",
			input: "list<frozen<map<int, text>>>",
			expected: DataType{Base: "list", Params: []DataType{
				{Base: "map", Frozen: true, Params: []DataType{
					{Base: "int"}, {Base: "text"},
				}},
			}},
		},
		{
			name:  "tuple variadic",
			input: "tuple<int, text, boolean>",
			expected: DataType{Base: "tuple", Params: []DataType{
				{Base: "int"}, {Base: "text"}, {Base: "boolean"},
			}},
		},
		{
			name:     "user defined type kept verbatim",
			input:    "address",
			expected: DataType{Base: "address"},
		},
		{
			name:     "keyspace qualified udt",
			input:    "demo.address",
			expected: DataType{Base: "demo.address"},
		},
		{
			name:     "surrounding whitespace",
			input:    "  text ",
			expected: DataType{Base: "text"},
		},
		{name: "empty", input: "", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "unclosed list", input: "list<int", wantErr: true},
		{name: "list without params", input: "list", wantErr: true},
		{name: "list arity", input: "list<int, text>", wantErr: true},
		{name: "map arity", input: "map<int>", wantErr: true},
		{name: "frozen without angle", input: "frozen text", wantErr: true},
		{name: "trailing garbage", input: "text>", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDataType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDataType(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDataType(%q) failed: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseDataType(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDataTypeString(t *testing.T) {
	tests := []string{
		"text",
		"frozen<text>",
		"list<int>",
		"map<text, int>",
		"list<frozen<map<int, text>>>",
		"tuple<int, text, boolean>",
	}

	for _, input := range tests {
		parsed, err := ParseDataType(input)
		if err != nil {
			t.Fatalf("ParseDataType(%q) failed: %v", input, err)
		}
		if got := parsed.String(); got != input {
			t.Errorf("round trip of %q produced %q", input, got)
		}
	}
}

func TestTextType(t *testing.T) {
	if got := TextType().String(); got != "text" {
		t.Errorf("TextType().String() = %q, want text", got)
	}
}
