package gromacs

import (
	"fmt"
	"path/filepath"
)

// Box types accepted by gmx editconf -bt.
var boxTypes = map[string]bool{
	"triclinic":    true,
	"cubic":        true,
	"dodecahedron": true,
	"octahedron":   true,
}

// Params describes a system preparation run.
type Params struct {
	Gmx        string // gmx binary, default "gmx"
	PDBFile    string
	ForceField string
	Box        string // default "cubic"
	MdpDir     string // directory holding ions.mdp and emin.mdp, default cwd
	WorkDir    string
}

// PrepareCommands builds the sequence that turns a PDB file into an
// energy-minimized, solvated and neutralized system.
func PrepareCommands(p Params) ([]Command, error) {
	if p.PDBFile == "" {
		return nil, fmt.Errorf("missing pdb file")
	}
	water, ok := WaterModel(p.ForceField)
	if !ok {
		return nil, fmt.Errorf("unknown force field '%s', options are %v", p.ForceField, ForceFields())
	}
	if p.Box == "" {
		p.Box = "cubic"
	}
	if !boxTypes[p.Box] {
		return nil, fmt.Errorf("unknown box type '%s'", p.Box)
	}
	if p.Gmx == "" {
		p.Gmx = "gmx"
	}
	pdbFile, err := filepath.Abs(p.PDBFile)
	if err != nil {
		return nil, fmt.Errorf("pdb path: %v", err)
	}
	mdpDir, err := filepath.Abs(p.MdpDir)
	if err != nil {
		return nil, fmt.Errorf("mdp path: %v", err)
	}
	// Four-site water needs its own pre-equilibrated box
	solvent := "spc216.gro"
	if water == "tip4p" {
		solvent = "tip4p.gro"
	}
	mdp := func(name string) string {
		return filepath.Join(mdpDir, name)
	}
	cmds := []Command{
		Cmd(p.Gmx, "pdb2gmx", "-f", pdbFile, "-ff", p.ForceField, "-o", "processed.gro", "-water", water, "-ignh"),
		Cmd(p.Gmx, "editconf", "-f", "processed.gro", "-o", "newbox.gro", "-c", "-d", "1.0", "-bt", p.Box),
		Cmd(p.Gmx, "solvate", "-cp", "newbox.gro", "-cs", solvent, "-o", "solv.gro", "-p", "topol.top"),
		Cmd(p.Gmx, "grompp", "-f", mdp("ions.mdp"), "-c", "solv.gro", "-p", "topol.top", "-o", "ions.tpr"),
		{
			Path:  p.Gmx,
			Args:  []string{"genion", "-s", "ions.tpr", "-o", "solv_ions.gro", "-p", "topol.top", "-pname", "NA", "-nname", "CL", "-neutral"},
			Stdin: "SOL\n",
		},
		Cmd(p.Gmx, "grompp", "-f", mdp("emin.mdp"), "-c", "solv_ions.gro", "-p", "topol.top", "-o", "em.tpr"),
		Cmd(p.Gmx, "mdrun", "-v", "-deffnm", "em"),
	}
	for i := range cmds {
		cmds[i].Dir = p.WorkDir
	}
	return cmds, nil
}
