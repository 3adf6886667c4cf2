package model

import (
	"encoding/json"
	"testing"
)

func TestMacroJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		P Macro `json:"p"`
		C Macro `json:"c"`
	}{P: Grams(12.5)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"p":12.5,"c":null}` {
		t.Errorf("Marshal = %s", b)
	}

	var got struct {
		P Macro `json:"p"`
		C Macro `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"p":0,"c":null}`), &got); err != nil {
		t.Fatal(err)
	}
	if got.P != Grams(0) {
		t.Errorf("P = %+v, want known 0", got.P)
	}
	if got.C.Known {
		t.Errorf("C = %+v, want unknown", got.C)
	}
}

func TestMacroOr(t *testing.T) {
	if Unknown().Or(-1) != -1 {
		t.Error("unknown macro should use default")
	}
	if Grams(3).Or(-1) != 3 {
		t.Error("known macro should use value")
	}
}
