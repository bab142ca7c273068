package rules

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/healthbar/health"
)

// Scripted transforms are tengo sources defining a transform(amount)
// function that returns either a bare number (damage amount, bleeds
// through) or a map of the form {amount: 12.5, capped: true}.
const transformDispatchScript = `
__result := transform(__amount)
`

type scriptTransform struct {
	name     string
	compiled *tengo.Compiled
}

// compileTransform loads, compiles, and probe-runs a transform script. The
// probe run catches scripts that fail to define transform or return an
// unusable shape before the table is ever used in combat.
//
// The returned transform mutates compiled script state on every call, so a
// table containing scripted transforms must stay on a single goroutine.
func compileTransform(name string) (health.Transform, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("rules: load script %s: %w", name, err)
	}

	script := tengo.NewScript(append(src, []byte("\n"+transformDispatchScript)...))
	_ = script.Add("__amount", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("rules: compile script %s: %w", name, err)
	}

	st := &scriptTransform{name: name, compiled: compiled}
	if _, err := st.run(0); err != nil {
		return nil, err
	}
	return st.transform, nil
}

func (st *scriptTransform) run(amount float64) (health.DamageInfo, error) {
	if err := st.compiled.Set("__amount", amount); err != nil {
		return health.DamageInfo{}, fmt.Errorf("rules: script %s: %w", st.name, err)
	}
	if err := st.compiled.Run(); err != nil {
		return health.DamageInfo{}, fmt.Errorf("rules: script %s: %w", st.name, err)
	}
	return parseResult(st.name, st.compiled.Get("__result").Value())
}

// transform adapts the script to health.Transform. Transforms cannot fail
// at damage time, so a script error after the successful probe run degrades
// to the identity fallback.
func (st *scriptTransform) transform(amount float64) health.DamageInfo {
	info, err := st.run(amount)
	if err != nil {
		fmt.Printf("rules: script %s error: %v\n", st.name, err)
		return health.IdentityTransform(amount)
	}
	return info
}

func parseResult(name string, v any) (health.DamageInfo, error) {
	switch out := v.(type) {
	case map[string]any:
		info := health.DamageInfo{}
		amount, ok := asFloat(out["amount"])
		if !ok {
			return health.DamageInfo{}, fmt.Errorf("rules: script %s: result map has no numeric amount", name)
		}
		info.Amount = amount
		if capped, ok := out["capped"].(bool); ok {
			info.Capped = capped
		}
		return info, nil
	default:
		if amount, ok := asFloat(v); ok {
			return health.DamageInfo{Amount: amount}, nil
		}
		return health.DamageInfo{}, fmt.Errorf("rules: script %s: transform returned %T, want number or map", name, v)
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
