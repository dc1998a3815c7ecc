package registry

import "testing"

func TestBaseRegistry(t *testing.T) {
	reg := NewBaseRegistry[int]()

	if err := reg.Register("", 1); err == nil {
		t.Error("empty name should fail")
	}
	if err := reg.Register("b", 2); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("a", 1); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register("a", 3); err == nil {
		t.Error("duplicate name should fail")
	}

	if v, ok := reg.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("Get(missing) should report absence")
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("Names() = %v, want sorted [a b]", names)
	}
	if reg.Count() != 2 {
		t.Errorf("Count() = %d", reg.Count())
	}
}
