package gromacs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaterModel(t *testing.T) {
	expected := map[string]string{
		"amber03":        "tip3p",
		"amber94":        "tip3p",
		"amber96":        "tip3p",
		"amber99":        "tip3p",
		"amber99sb-ildn": "tip3p",
		"amber99sb":      "tip3p",
		"amberGS":        "tip3p",
		"charmm27":       "tip3p",
		"gromos43a1":     "spc",
		"gromos43a2":     "spc",
		"gromos45a3":     "spc",
		"gromos53a5":     "spc",
		"gromos53a6":     "spc",
		"gromos54a7":     "spc",
		"oplsaa":         "tip4p",
	}
	require.Len(t, ForceFields(), len(expected))
	for ff, water := range expected {
		t.Run(ff, func(t *testing.T) {
			got, ok := WaterModel(ff)
			require.True(t, ok)
			assert.Equal(t, water, got)
		})
	}
	_, ok := WaterModel("amber14sb")
	assert.False(t, ok)
}

func TestForceFieldsSorted(t *testing.T) {
	names := ForceFields()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "oplsaa")
}
