package usd

import "testing"

func TestPath(t *testing.T) {
	p := RootPath.AppendChild("ROOT").AppendChild("Body")
	if p != "/ROOT/Body" {
		t.Error("path: ", p)
	}
	if p.Parent() != "/ROOT" {
		t.Error("parent: ", p.Parent())
	}
	if p.Name() != "Body" {
		t.Error("name: ", p.Name())
	}

	prop := p.AppendProperty("points")
	if prop != "/ROOT/Body.points" {
		t.Error("property path: ", prop)
	}
	if !prop.IsPropertyPath() || p.IsPropertyPath() {
		t.Error("property path detection")
	}
	if prop.PrimPath() != p {
		t.Error("prim path: ", prop.PrimPath())
	}
	if prop.Parent() != p {
		t.Error("property parent: ", prop.Parent())
	}
	if prop.Name() != "points" {
		t.Error("property name: ", prop.Name())
	}

	if Path("/ROOT").Parent() != RootPath {
		t.Error("top-level parent should be the root")
	}
}

func TestGetOrAddPrim(t *testing.T) {
	doc := NewDocument()
	a := doc.GetOrAddPrim("/ROOT/A")
	b := doc.GetOrAddPrim("/ROOT/A")
	if a != b {
		t.Error("get-or-add must return the same prim")
	}
	if len(doc.Prims()) != 1 {
		t.Error("prim count: ", len(doc.Prims()))
	}
}

func TestGetOrAddProperty(t *testing.T) {
	doc := NewDocument()
	prop := doc.GetOrAddProperty("/ROOT/A.points")
	if prop.Path != "/ROOT/A.points" {
		t.Error("property path: ", prop.Path)
	}

	prim, ok := doc.Prim("/ROOT/A")
	if !ok {
		t.Fatal("owning prim should exist")
	}
	if len(prim.PropertyNames) != 1 || prim.PropertyNames[0] != "points" {
		t.Error("property registration: ", prim.PropertyNames)
	}

	if doc.GetOrAddProperty("/ROOT/A.points") != prop {
		t.Error("get-or-add must return the same property")
	}
	if len(prim.PropertyNames) != 1 {
		t.Error("re-adding must not duplicate the name")
	}

	props := doc.PrimProperties("/ROOT/A")
	if len(props) != 1 || props[0] != prop {
		t.Error("prim properties: ", props)
	}
}

func TestSetTimeSamplesMarksVarying(t *testing.T) {
	prop := &Property{Variability: VariabilityUniform}
	prop.SetTimeSamples(nil)
	if prop.Variability != VariabilityUniform {
		t.Error("empty samples must not change variability")
	}

	prop.SetTimeSamples([]TimeSample{{Time: 0, Value: 1.0}})
	if prop.Variability != VariabilityVarying {
		t.Error("a sampled property must be varying")
	}
}
