package rules

import (
	"errors"
	"strings"
	"testing"
)

func TestPrettyLabel(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"expiration_days", "Expiration Days"},
		{"diff_density_qty", "Diff Density Qty"},
		{"foo", "Foo"},
		{"HTTP_code", "Http Code"},
	}
	for _, tt := range tests {
		if got := prettyLabel(tt.name); got != tt.want {
			t.Errorf("prettyLabel(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestVariablesRegister_DefaultsLabels(t *testing.T) {
	vs := NewVariables("ProductVariables")
	err := vs.Register(Variable{
		Name:   "expiration_days",
		Kind:   KindNumeric,
		Params: []ParamDef{{Name: "product_id", FieldType: FieldNumeric}},
		Func:   func(Params) (VariableResult, error) { return Value(1), nil },
	})
	if err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}

	v := vs.byName["expiration_days"]
	if v.Label != "Expiration Days" {
		t.Errorf("Label = %q, want auto-derived %q", v.Label, "Expiration Days")
	}
	if v.Params[0].Label != "Product Id" {
		t.Errorf("param Label = %q, want auto-derived %q", v.Params[0].Label, "Product Id")
	}
}

func TestVariablesRegister_ExplicitLabelKept(t *testing.T) {
	vs := NewVariables("ProductVariables")
	err := vs.Register(Variable{
		Name:  "expiration_days",
		Label: "Days Until Expiration",
		Kind:  KindNumeric,
		Func:  func(Params) (VariableResult, error) { return Value(1), nil },
	})
	if err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}
	if got := vs.byName["expiration_days"].Label; got != "Days Until Expiration" {
		t.Errorf("Label = %q, want explicit label kept", got)
	}
}

func TestVariablesRegister_Validation(t *testing.T) {
	ok := func(Params) (VariableResult, error) { return Value(1), nil }
	tests := []struct {
		name     string
		variable Variable
		wantPart string
	}{
		{"no name", Variable{Kind: KindNumeric, Func: ok}, "no name"},
		{"no handler", Variable{Name: "v", Kind: KindNumeric}, "no handler"},
		{"invalid kind", Variable{Name: "v", Func: ok}, "invalid kind"},
		{"bad param field type", Variable{
			Name: "v", Kind: KindNumeric, Func: ok,
			Params: []ParamDef{{Name: "p", FieldType: FieldType("whatever")}},
		}, "unknown field type"},
		{"no-input param field type", Variable{
			Name: "v", Kind: KindNumeric, Func: ok,
			Params: []ParamDef{{Name: "p", FieldType: FieldNoInput}},
		}, "unknown field type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vs := NewVariables("TestVariables")
			err := vs.Register(tt.variable)
			if err == nil {
				t.Fatalf("Register() error = nil, want failure")
			}
			if !strings.Contains(err.Error(), tt.wantPart) {
				t.Errorf("error %q should contain %q", err, tt.wantPart)
			}
		})
	}
}

func TestVariablesRegister_Duplicate(t *testing.T) {
	vs := NewVariables("TestVariables")
	v := Variable{Name: "v", Kind: KindNumeric, Func: func(Params) (VariableResult, error) { return Value(1), nil }}
	if err := vs.Register(v); err != nil {
		t.Fatalf("Register() error = %v, want nil", err)
	}
	if err := vs.Register(v); err == nil {
		t.Errorf("Register() duplicate error = nil, want failure")
	}
}

func TestResolve_OverridesNeverNil(t *testing.T) {
	vs := NewVariables("TestVariables").
		MustRegister(Variable{Name: "plain", Kind: KindNumeric, Func: func(Params) (VariableResult, error) {
			return Value(7), nil
		}})

	_, overrides, err := vs.resolve("plain", nil)
	if err != nil {
		t.Fatalf("resolve() error = %v, want nil", err)
	}
	if overrides == nil {
		t.Errorf("overrides = nil, want empty map")
	}
	if len(overrides) != 0 {
		t.Errorf("overrides = %v, want empty", overrides)
	}
}

func TestResolve_PropagatesOverrides(t *testing.T) {
	vs := NewVariables("TestVariables").
		MustRegister(Variable{Name: "with", Kind: KindNumeric, Func: func(Params) (VariableResult, error) {
			return ValueWith(7, Params{"k": "v"}), nil
		}})

	_, overrides, err := vs.resolve("with", nil)
	if err != nil {
		t.Fatalf("resolve() error = %v, want nil", err)
	}
	if overrides["k"] != "v" {
		t.Errorf("overrides = %v, want {k:v}", overrides)
	}
}

func TestResolve_HandlerErrorWrapped(t *testing.T) {
	boom := errors.New("backend unavailable")
	vs := NewVariables("TestVariables").
		MustRegister(Variable{Name: "flaky", Kind: KindNumeric, Func: func(Params) (VariableResult, error) {
			return VariableResult{}, boom
		}})

	_, _, err := vs.resolve("flaky", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("resolve() error = %v, want wrapped handler error", err)
	}
	if !strings.Contains(err.Error(), "flaky") {
		t.Errorf("error %q should name the variable", err)
	}
}

func TestResolve_CoercionFailure(t *testing.T) {
	vs := NewVariables("TestVariables").
		MustRegister(Variable{Name: "broken", Kind: KindBoolean, Func: func(Params) (VariableResult, error) {
			return Value("yes"), nil
		}})

	_, _, err := vs.resolve("broken", nil)
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("resolve() error = %v, want ErrInvalidValue", err)
	}
}
