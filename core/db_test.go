package core

import (
	"reflect"
	"testing"
)

func TestApplyFields(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]interface{}
		fields  Fields
		want    map[string]interface{}
		wantErr bool
	}{
		{
			name:   "set",
			doc:    map[string]interface{}{"a": "x", "n": float64(1)},
			fields: Fields{"a": "y", "n": 2, "b": []string{"s"}},
			want:   map[string]interface{}{"a": "y", "n": float64(2), "b": []interface{}{"s"}},
		},
		{
			name:   "union skips present values",
			doc:    map[string]interface{}{"m": []interface{}{"a", "b"}},
			fields: Fields{"m": Union("b", "c", "c")},
			want:   map[string]interface{}{"m": []interface{}{"a", "b", "c"}},
		},
		{
			name:   "union on missing field",
			doc:    map[string]interface{}{},
			fields: Fields{"m": Union("a")},
			want:   map[string]interface{}{"m": []interface{}{"a"}},
		},
		{
			name:   "remove every occurrence",
			doc:    map[string]interface{}{"m": []interface{}{"a", "b", "a"}},
			fields: Fields{"m": Remove("a", "z")},
			want:   map[string]interface{}{"m": []interface{}{"b"}},
		},
		{
			name:    "union on non array",
			doc:     map[string]interface{}{"m": "a"},
			fields:  Fields{"m": Union("b")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ApplyFields(tt.doc, tt.fields)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyFields() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(tt.doc, tt.want) {
				t.Errorf("ApplyFields() doc = %v, want %v", tt.doc, tt.want)
			}
		})
	}
}

func TestMatchesWhere(t *testing.T) {
	doc := map[string]interface{}{"papel": "Líder", "n": float64(3)}
	tests := []struct {
		name  string
		where map[string]interface{}
		want  bool
	}{
		{name: "empty", where: nil, want: true},
		{name: "match", where: map[string]interface{}{"papel": "Líder"}, want: true},
		{name: "number match", where: map[string]interface{}{"n": 3}, want: true},
		{name: "mismatch", where: map[string]interface{}{"papel": "Participante"}},
		{name: "missing field", where: map[string]interface{}{"lol": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchesWhere(doc, tt.where)
			if err != nil {
				t.Fatalf("MatchesWhere() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("MatchesWhere() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIndexKey(t *testing.T) {
	idx := UniqueIndex{Name: "pair", Fields: []string{"a", "b"}}

	k1, ok1 := IndexKey(map[string]interface{}{"a": "x", "b": "y"}, idx)
	k2, ok2 := IndexKey(map[string]interface{}{"a": "x", "b": "y", "c": "z"}, idx)
	k3, _ := IndexKey(map[string]interface{}{"a": "xy", "b": ""}, idx)
	if !ok1 || !ok2 || k1 != k2 {
		t.Errorf("IndexKey() = %q, %q; want equal keys", k1, k2)
	}
	if k1 == k3 {
		t.Errorf("IndexKey() collision: %q", k1)
	}
	if _, ok := IndexKey(map[string]interface{}{"a": "x"}, idx); ok {
		t.Error("IndexKey() ok with a missing field")
	}
	if _, ok := IndexKey(map[string]interface{}{"a": "x", "b": nil}, idx); ok {
		t.Error("IndexKey() ok with a null field")
	}
}

func TestDuplicateIndex(t *testing.T) {
	if name, ok := DuplicateIndex(&DuplicateError{Index: "uniq"}); !ok || name != "uniq" {
		t.Errorf("DuplicateIndex() = %q, %v", name, ok)
	}
	if _, ok := DuplicateIndex(ErrNoDocument); ok {
		t.Error("DuplicateIndex() ok for a non duplicate error")
	}
}
