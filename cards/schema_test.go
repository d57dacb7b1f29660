package cards

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolveAppliesDefaults(t *testing.T) {
	schema := InputSchema{
		"city": {Type: TypeString, Required: true},
		"unit": {Type: TypeString, Default: "celsius"},
	}

	got, err := schema.Resolve(map[string]any{"city": "Paris"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	want := map[string]any{"city": "Paris", "unit": "celsius"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("resolved = %#v, want %#v", got, want)
	}
}

func TestResolveKeepsCallerValueOverDefault(t *testing.T) {
	schema := InputSchema{
		"unit":    {Type: TypeString, Default: "celsius"},
		"visible": {Type: TypeBoolean, Default: true},
	}

	got, err := schema.Resolve(map[string]any{"unit": "fahrenheit", "visible": false})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got["unit"] != "fahrenheit" {
		t.Fatalf("unit = %v, want fahrenheit", got["unit"])
	}
	if got["visible"] != false {
		t.Fatalf("visible = %v, want false", got["visible"])
	}
}

func TestResolveCollectsAllMissingRequired(t *testing.T) {
	schema := InputSchema{
		"city":    {Type: TypeString, Required: true},
		"country": {Type: TypeString, Required: true},
		"unit":    {Type: TypeString, Default: "celsius"},
	}

	_, err := schema.Resolve(map[string]any{})
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if !reflect.DeepEqual(verr.Missing, []string{"city", "country"}) {
		t.Fatalf("missing = %v, want [city country]", verr.Missing)
	}
}

func TestResolveRequiredWithDefaultNeverFails(t *testing.T) {
	schema := InputSchema{
		"unit": {Type: TypeString, Required: true, Default: "celsius"},
	}

	got, err := schema.Resolve(nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got["unit"] != "celsius" {
		t.Fatalf("unit = %v, want celsius", got["unit"])
	}
}

func TestResolvePassesUnknownKeysThrough(t *testing.T) {
	schema := InputSchema{
		"city": {Type: TypeString, Required: true},
	}

	got, err := schema.Resolve(map[string]any{"city": "Paris", "vote": "go"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got["vote"] != "go" {
		t.Fatalf("unknown key did not pass through: %#v", got)
	}
}

func TestRequiredFields(t *testing.T) {
	schema := InputSchema{
		"zeta":  {Type: TypeString, Required: true},
		"alpha": {Type: TypeString, Required: true},
		"unit":  {Type: TypeString, Required: true, Default: "celsius"},
		"note":  {Type: TypeString},
	}

	got := schema.RequiredFields()
	if !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Fatalf("required = %v, want [alpha zeta]", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Missing: []string{"city", "country"}}
	want := "missing required inputs: city, country"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}
