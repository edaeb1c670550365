// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sample struct {
	Name  string `cbor:"name"`
	Count int    `cbor:"count"`
}

func TestMarshalRoundTrip(t *testing.T) {
	in := sample{Name: "cycle", Count: 3}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var out sample
	if err := Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	in := map[string]int{"b": 2, "a": 1, "c": 3}

	first, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Marshal(in)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("encoding %d differs from the first: %x vs %x", i, again, first)
		}
	}
}

func TestStreamEncodeDecode(t *testing.T) {
	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)

	for _, value := range []sample{{Name: "one", Count: 1}, {Name: "two", Count: 2}} {
		if err := encoder.Encode(value); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	var first, second sample
	if err := decoder.Decode(&first); err != nil {
		t.Fatalf("Decode first: %v", err)
	}
	if err := decoder.Decode(&second); err != nil {
		t.Fatalf("Decode second: %v", err)
	}
	if first.Name != "one" || second.Name != "two" {
		t.Errorf("decoded %q then %q, want one then two", first.Name, second.Name)
	}
}
