package uvpath

import (
	"testing"

	"github.com/morphcli/morph/internal/uv"
)

func mustParse(t *testing.T, s string) Path {
	t.Helper()
	p, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", s, err)
	}
	return p
}

func TestGetSimpleField(t *testing.T) {
	root := uv.NewMap()
	root.MapSet("name", uv.String("ada"))

	got, err := Get(root, mustParse(t, ".name"))
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != 1 || got[0].StringValue() != "ada" {
		t.Fatalf("Get(.name) = %v, want [ada]", got)
	}
}

func TestGetMissingFieldResolvesEmpty(t *testing.T) {
	root := uv.NewMap()
	got, err := Get(root, mustParse(t, ".missing"))
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("Get(.missing) = %v, want no matches", got)
	}
}

func TestGetWildcardFanOutOverArray(t *testing.T) {
	root := uv.NewMap()
	root.MapSet("items", uv.Array(uv.Int(1), uv.Int(2), uv.Int(3)))

	got, err := Get(root, mustParse(t, ".items[*]"))
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Get(.items[*]) = %d matches, want 3", len(got))
	}
}

func TestGetWildcardFanOutOverMap(t *testing.T) {
	root := uv.NewMap()
	nested := uv.NewMap()
	nested.MapSet("a", uv.Int(1))
	nested.MapSet("b", uv.Int(2))
	root.MapSet("scores", nested)

	got, err := Get(root, mustParse(t, ".scores[*]"))
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Get(.scores[*]) = %d matches, want 2", len(got))
	}
}

func TestSetCreatesIntermediateMaps(t *testing.T) {
	root := uv.NewMap()

	if err := Set(root, mustParse(t, ".a.b.c"), uv.Int(42)); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := Get(root, mustParse(t, ".a.b.c"))
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != 1 || got[0].IntValue() != 42 {
		t.Fatalf("Get(.a.b.c) after Set = %v, want [42]", got)
	}
}

func TestSetFuncInvokesProducePerWildcardSite(t *testing.T) {
	root := uv.NewMap()
	items := uv.Array(uv.Int(1), uv.Int(2), uv.Int(3))
	root.MapSet("items", items)

	var sites []int64
	err := SetFunc(root, mustParse(t, ".items[*]"), func(site *uv.Value) (*uv.Value, error) {
		sites = append(sites, site.IntValue())
		return uv.Int(site.IntValue() * 10), nil
	})
	if err != nil {
		t.Fatalf("SetFunc returned error: %v", err)
	}
	if len(sites) != 3 || sites[0] != 1 || sites[1] != 2 || sites[2] != 3 {
		t.Fatalf("produce was called with sites %v, want [1 2 3]", sites)
	}
	got, err := Get(root, mustParse(t, ".items[*]"))
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != 3 || got[0].IntValue() != 10 || got[1].IntValue() != 20 || got[2].IntValue() != 30 {
		t.Fatalf("items after SetFunc = %v, want [10 20 30]", got)
	}
}

func TestSetThroughScalarIsError(t *testing.T) {
	root := uv.NewMap()
	root.MapSet("a", uv.Int(1))

	if err := Set(root, mustParse(t, ".a.b"), uv.Int(1)); err == nil {
		t.Error("Set through a scalar field should fail")
	}
}

func TestSetIndexOutOfRangeIsError(t *testing.T) {
	root := uv.NewMap()
	root.MapSet("items", uv.Array(uv.Int(1)))

	if err := Set(root, mustParse(t, ".items[5]"), uv.Int(9)); err == nil {
		t.Error("Set at an out-of-range index should fail")
	}
}

func TestDeleteClosesArrayGap(t *testing.T) {
	root := uv.NewMap()
	root.MapSet("items", uv.Array(uv.Int(1), uv.Int(2), uv.Int(3)))

	if err := Delete(root, mustParse(t, ".items[0]")); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	items := root.MapGet("items")
	if items.ArrayLen() != 2 || items.ArrayGet(0).IntValue() != 2 {
		t.Fatalf("after Delete(.items[0]), items = %v", items.ArrayElements())
	}
}

func TestDeleteMissingFieldIsNoOp(t *testing.T) {
	root := uv.NewMap()
	if err := Delete(root, mustParse(t, ".missing")); err != nil {
		t.Fatalf("Delete of a missing field should be a no-op, got error: %v", err)
	}
}

func TestDeleteWildcardClearsMap(t *testing.T) {
	root := uv.NewMap()
	root.MapSet("a", uv.Int(1))
	root.MapSet("b", uv.Int(2))

	if err := Delete(root, mustParse(t, ".[*]")); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if root.MapLen() != 0 {
		t.Fatalf("Delete(.[*]) left %d entries, want 0", root.MapLen())
	}
}
