package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/milk9111/healthbar/rules"
)

// rulecheck validates a reaction rules file without starting the game:
// it loads the YAML, compiles any scripted transforms, and builds the
// table, exiting non-zero on the first configuration error.
func main() {
	flag.Parse()

	file := rules.DefaultRulesFile
	if flag.NArg() > 0 {
		file = flag.Arg(0)
	}

	spec, err := rules.LoadRulesSpec(file)
	if err != nil {
		log.Fatal(err)
	}
	table, err := rules.BuildTable(spec)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%s: %d rules, %d reaction pairs\n", file, len(spec.Reactions), table.Len())
	for i, r := range spec.Reactions {
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i)
		}
		fmt.Printf("  %-20s %s <- [%s]  %s\n", name, r.Health, strings.Join(r.Damage, ", "), describeTransform(r.Transform))
	}
}

func describeTransform(ts rules.TransformSpec) string {
	switch {
	case ts.Script != "":
		return fmt.Sprintf("script %s", ts.Script)
	case ts.Scale != nil:
		return fmt.Sprintf("scale %g%s", *ts.Scale, cappedSuffix(ts.Capped))
	case ts.Flat != nil:
		return fmt.Sprintf("flat %g%s", *ts.Flat, cappedSuffix(ts.Capped))
	case ts.Cap != nil:
		return fmt.Sprintf("cap %g (capped)", *ts.Cap)
	case ts.Capped:
		return "full (capped)"
	default:
		return "invalid"
	}
}

func cappedSuffix(capped bool) string {
	if capped {
		return " (capped)"
	}
	return ""
}
