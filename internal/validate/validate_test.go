package validate_test

import (
	"testing"

	"ecommerceapi/internal/domain"
	"ecommerceapi/internal/validate"
)

func TestID(t *testing.T) {
	cases := map[string]bool{"1": true, " 42 ": true, "0": false, "-3": false, "abc": false, "": false}
	for in, want := range cases {
		if _, ok := validate.ID(in); ok != want {
			t.Errorf("ID(%q) ok=%v, want %v", in, ok, want)
		}
	}
}

func TestPassword(t *testing.T) {
	if !validate.Password("Passw0rd!") {
		t.Fatal("expected strong password to pass")
	}
	for _, p := range []string{"short1!", "alllowercase1!", "NoDigits!!", "NoSymbol123"} {
		if validate.Password(p) {
			t.Errorf("expected %q to fail", p)
		}
	}
}

func TestQtyBounds(t *testing.T) {
	if validate.Qty(0) || validate.Qty(-1) || validate.Qty(validate.MaxQty+1) {
		t.Fatal("out-of-range quantities must be rejected")
	}
	if !validate.Qty(1) || !validate.Qty(validate.MaxQty) {
		t.Fatal("boundary quantities must be accepted")
	}
}

func TestQAcceptsAccents(t *testing.T) {
	if q, ok := validate.Q("  Café "); !ok || q != "Café" {
		t.Fatalf("got %q ok=%v", q, ok)
	}
	if _, ok := validate.Q("<script>"); ok {
		t.Fatal("markup must be rejected")
	}
}

func TestParseCartAction(t *testing.T) {
	for _, in := range []string{"aumentar", "DIMINUIR", " Deletar "} {
		if _, ok := domain.ParseCartAction(in); !ok {
			t.Errorf("ParseCartAction(%q) rejected", in)
		}
	}
	if _, ok := domain.ParseCartAction("remover"); ok {
		t.Fatal("unknown verb accepted")
	}
}
