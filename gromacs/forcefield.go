package gromacs

import "sort"

// Recommended force field to water model pairs, as shipped in
// gromacs-2024.1/share/top.
var forceFieldWater = map[string]string{
	// AMBER
	"amber03":        "tip3p",
	"amber94":        "tip3p",
	"amber96":        "tip3p",
	"amber99":        "tip3p",
	"amber99sb-ildn": "tip3p",
	"amber99sb":      "tip3p",
	"amberGS":        "tip3p",
	// CHARMM all-atom
	"charmm27": "tip3p",
	// GROMOS
	"gromos43a1": "spc",
	"gromos43a2": "spc",
	"gromos45a3": "spc",
	"gromos53a5": "spc",
	"gromos53a6": "spc",
	"gromos54a7": "spc",
	// OPLS all-atom
	"oplsaa": "tip4p",
}

// WaterModel returns the water model paired with a force field.
func WaterModel(forceField string) (string, bool) {
	water, ok := forceFieldWater[forceField]
	return water, ok
}

// ForceFields returns the known force fields in sorted order.
func ForceFields() []string {
	names := make([]string, 0, len(forceFieldWater))
	for name := range forceFieldWater {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
