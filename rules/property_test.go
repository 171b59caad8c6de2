package rules

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Property-based test: numeric equality holds across integer and float
// representations of the same value.
func TestCompare_PropertyNumericRepresentations(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("int and float64 forms compare equal", prop.ForAll(
		func(n int) bool {
			left, err := NewTypedValue(KindNumeric, n)
			if err != nil {
				return false
			}
			ok, err := Compare(left, "equal_to", float64(n))
			return err == nil && ok
		},
		gen.IntRange(-1_000_000, 1_000_000),
	))

	properties.Property("ordering is consistent with Go ordering", prop.ForAll(
		func(a, b int) bool {
			left, err := NewTypedValue(KindNumeric, a)
			if err != nil {
				return false
			}
			gt, err := Compare(left, "greater_than", b)
			if err != nil {
				return false
			}
			lt, err := Compare(left, "less_than", b)
			if err != nil {
				return false
			}
			return gt == (a > b) && lt == (a < b)
		},
		gen.IntRange(-1_000_000, 1_000_000),
		gen.IntRange(-1_000_000, 1_000_000),
	))

	properties.TestingRun(t)
}

// Property-based test: override accumulation is right-biased last-write-wins
// and never mutates its inputs.
func TestMergeParams_PropertyRightBiased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	keys := []string{"a", "b", "c", "d"}

	properties.Property("merge matches sequential last-write-wins", prop.ForAll(
		func(baseVals, overlayVals []int) bool {
			base := Params{}
			for i, v := range baseVals {
				if i >= len(keys) {
					break
				}
				base[keys[i]] = v
			}
			overlay := Params{}
			for i, v := range overlayVals {
				if i >= len(keys) {
					break
				}
				overlay[keys[i]] = v * 31
			}

			want := Params{}
			for k, v := range base {
				want[k] = v
			}
			for k, v := range overlay {
				want[k] = v
			}

			got := mergeParams(base, overlay)
			if len(got) != len(want) {
				return false
			}
			for k, v := range want {
				if got[k] != v {
					return false
				}
			}

			// Inputs stay untouched.
			for i, v := range baseVals {
				if i >= len(keys) {
					break
				}
				if base[keys[i]] != v {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 100)),
		gen.SliceOf(gen.IntRange(0, 100)),
	))

	properties.TestingRun(t)
}
