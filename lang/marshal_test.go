package lang

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestToNative(t *testing.T) {
	d := NewDict()
	d.SetStr("list", NewList(Int(1), Float(2.5), Str("x"), Null{}))
	d.SetStr("flag", Bool(true))
	_ = d.Set(Int(3), NewSet(Str("a")))

	got := ToNative(d)
	want := map[string]any{
		"list": []any{int64(1), 2.5, "x", nil},
		"flag": true,
		"3":    []any{"a"},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToNative = %#v, want %#v", got, want)
	}
}

func TestFromNative(t *testing.T) {
	dec := json.NewDecoder(strings.NewReader(`{"b": [1, 2.5, "s", null, true], "a": {"n": 0}}`))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		t.Fatal(err)
	}

	v, err := FromNative(decoded)
	if err != nil {
		t.Fatalf("FromNative error: %v", err)
	}

	if got, want := Display(v), `{"a": {"n": 0}, "b": [1, 2.5, "s", null, true]}`; got != want {
		t.Errorf("FromNative = %s, want %s", got, want)
	}

	typed, err := FromNative(map[int]string{2: "b", 1: "a"})
	if err != nil {
		t.Fatalf("FromNative error: %v", err)
	}

	if got, want := Display(typed), `{1: "a", 2: "b"}`; got != want {
		t.Errorf("FromNative = %q, want %q", got, want)
	}

	if _, err := FromNative(make(chan int)); err == nil {
		t.Error("FromNative(chan) succeeded, want error")
	}
}
