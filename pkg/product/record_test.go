package product

import (
	"reflect"
	"testing"
)

func TestRecord_SetField(t *testing.T) {
	r := NewRecord()

	r.SetField("name", "Chair", false)
	r.SetField("name", "Couch", false)
	if got := r.GetField("name"); got != "Couch" {
		t.Errorf("GetField(name) = %v, want last scalar write", got)
	}

	r.SetField("groups", "1", true)
	r.SetField("groups", "2", true)
	want := []any{"1", "2"}
	if got := r.GetField("groups"); !reflect.DeepEqual(got, want) {
		t.Errorf("GetField(groups) = %v, want %v", got, want)
	}
}

func TestRecord_GetFieldDefault(t *testing.T) {
	r := NewRecord()
	if got := r.GetField("missing"); got != "" {
		t.Errorf("GetField(missing) = %v, want empty string", got)
	}
}

func TestRecord_SetAttribute(t *testing.T) {
	r := NewRecord()

	r.SetAttribute("Color", "Red")
	r.SetAttribute("Color", "Red")
	r.SetAttribute("Color", "Blue")
	r.SetAttribute("Color", "red")

	want := []string{"Red", "Blue", "red"}
	if got := r.Attribute("Color"); !reflect.DeepEqual(got, want) {
		t.Errorf("Attribute(Color) = %v, want %v", got, want)
	}
}

func TestRecord_AddIdentifier(t *testing.T) {
	r := NewRecord()

	r.AddIdentifier("S-000813-C")
	r.AddIdentifier("")
	r.AddIdentifier("modeeel")
	r.AddIdentifier("S-000813-C")
	r.AddIdentifier("s-000813-c")

	want := []string{"S-000813-C", "modeeel", "s-000813-c"}
	if got := r.Identifiers(); !reflect.DeepEqual(got, want) {
		t.Errorf("Identifiers() = %v, want %v (case-sensitive ordered dedup)", got, want)
	}
}

func TestRecord_Results(t *testing.T) {
	r := NewRecord()
	r.SetField("id", "102", false)
	r.SetAttribute("cat", "Living Room")
	r.AddIdentifier("1076")

	results := r.Results()

	if got := results["id"]; got != "102" {
		t.Errorf("results[id] = %v, want 102", got)
	}
	if got, ok := results["ordernumber"].([]string); !ok || !reflect.DeepEqual(got, []string{"1076"}) {
		t.Errorf("results[ordernumber] = %v, want [1076]", results["ordernumber"])
	}
	attributes, ok := results["attributes"].(map[string][]string)
	if !ok {
		t.Fatalf("results[attributes] has type %T", results["attributes"])
	}
	if !reflect.DeepEqual(attributes["cat"], []string{"Living Room"}) {
		t.Errorf("attributes[cat] = %v, want [Living Room]", attributes["cat"])
	}
}
