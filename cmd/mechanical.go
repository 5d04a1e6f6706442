/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/notargets/gofea/InputParameters"
	"github.com/notargets/gofea/model_problems/Mechanical"
	"github.com/notargets/gofea/utils"
)

// MechanicalCmd represents the mechanical command
var MechanicalCmd = &cobra.Command{
	Use:   "mechanical",
	Short: "Linear elastic displacement, stress and strain of a solid",
	Long: `
Solves isotropic linear elasticity over the tetrahedra of a Gmsh mesh with
displacement (Dirichlet) and traction (Neumann) vectors on named physical
surfaces. Nodal stress and strain are averaged over the elements sharing
each node.

gofea mechanical -F bracket.yaml -o bracket.vtk`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			pr *ProblemRun
			ip *InputParameters.InputParameters
			in Mechanical.Input
			c  *Mechanical.Mechanical
		)
		if pr, err = newProblemRun(cmd); err != nil {
			return
		}
		if ip, err = processInput(pr, InputParameters.MechanicalPT); err != nil {
			return
		}
		if utils.Verbosity() <= utils.Info {
			ip.Print()
		}
		if in, err = ip.MechanicalInput(); err != nil {
			return
		}
		solver, err := ip.SolverOptions()
		if err != nil {
			return
		}
		opts, err := assemblerOptions(solver)
		if err != nil {
			return
		}
		if c, err = Mechanical.NewMechanical(in, opts...); err != nil {
			return
		}
		if err = c.Solve(); err != nil {
			return
		}
		return c.WriteVTK(pr.OutputFile)
	},
}

func init() {
	rootCmd.AddCommand(MechanicalCmd)
	addProblemFlags(MechanicalCmd)
}
