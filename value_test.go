// SPDX-FileCopyrightText: 2026 The ajv-go authors
// SPDX-License-Identifier: MIT

package ajv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{
			name: "int and float with same value",
			a:    IntValue(1),
			b:    FloatValue(1.0),
			want: true,
		},
		{
			name: "int and float with different value",
			a:    IntValue(1),
			b:    FloatValue(1.5),
			want: false,
		},
		{
			name: "string vs number",
			a:    StringValue("1"),
			b:    IntValue(1),
			want: false,
		},
		{
			name: "null equals null",
			a:    NullValue(),
			b:    NullValue(),
			want: true,
		},
		{
			name: "arrays element-wise",
			a:    ArrayValue(IntValue(1), StringValue("x")),
			b:    ArrayValue(FloatValue(1), StringValue("x")),
			want: true,
		},
		{
			name: "arrays of different length",
			a:    ArrayValue(IntValue(1)),
			b:    ArrayValue(IntValue(1), IntValue(2)),
			want: false,
		},
		{
			name: "objects ignore member order",
			a:    ObjectValue(Member{"a", IntValue(1)}, Member{"b", IntValue(2)}),
			b:    ObjectValue(Member{"b", IntValue(2)}, Member{"a", IntValue(1)}),
			want: true,
		},
		{
			name: "objects with different keys",
			a:    ObjectValue(Member{"a", IntValue(1)}),
			b:    ObjectValue(Member{"b", IntValue(1)}),
			want: false,
		},
		{
			name: "nested structures",
			a:    ObjectValue(Member{"a", ArrayValue(IntValue(1), NullValue())}),
			b:    ObjectValue(Member{"a", ArrayValue(FloatValue(1.0), NullValue())}),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := Equal(tt.b, tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromGo(t *testing.T) {
	got, err := FromGo(map[string]any{
		"name": "John",
		"age":  float64(30),
		"tags": []any{"a", "b"},
		"nil":  nil,
	})
	if err != nil {
		t.Fatalf("FromGo() error = %v", err)
	}

	want := map[string]any{
		"name": "John",
		"age":  int64(30),
		"tags": []any{"a", "b"},
		"nil":  nil,
	}
	if diff := cmp.Diff(want, got.ToGo()); diff != "" {
		t.Errorf("FromGo().ToGo() diff = %v", diff)
	}
}

func TestFromGoUnsupported(t *testing.T) {
	if _, err := FromGo(struct{}{}); err == nil {
		t.Error("FromGo(struct{}{}) error = nil, want error")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want string
	}{
		{"null", NullValue(), "null"},
		{"int", IntValue(42), "42"},
		{"float", FloatValue(1.5), "1.5"},
		{"string escaping", StringValue(`a"b`), `"a\"b"`},
		{
			"object keeps member order",
			ObjectValue(Member{"b", IntValue(2)}, Member{"a", ArrayValue(BoolValue(true))}),
			`{"b":2,"a":[true]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolvePointer(t *testing.T) {
	doc, err := DecodeString(`{"a": {"b/c": [10, 20]}, "~x": 1}`)
	if err != nil {
		t.Fatalf("DecodeString() error = %v", err)
	}

	tests := []struct {
		name   string
		ptr    string
		want   string
		wantOK bool
	}{
		{"root", "", `{"a":{"b/c":[10,20]},"~x":1}`, true},
		{"nested with escaped slash", "/a/b~1c/1", "20", true},
		{"escaped tilde", "/~0x", "1", true},
		{"missing key", "/nope", "", false},
		{"index out of range", "/a/b~1c/5", "", false},
		{"no leading slash", "a", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := resolvePointer(doc, tt.ptr)
			if ok != tt.wantOK {
				t.Fatalf("resolvePointer() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.String() != tt.want {
				t.Errorf("resolvePointer() = %s, want %s", got, tt.want)
			}
		})
	}
}
