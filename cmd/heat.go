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
	"github.com/notargets/gofea/model_problems/Heat"
	"github.com/notargets/gofea/plotting"
	"github.com/notargets/gofea/utils"
)

// Heat2DCmd represents the heat2d command
var Heat2DCmd = &cobra.Command{
	Use:   "heat2d",
	Short: "Steady heat conduction over the triangles of a mesh",
	Long: `
Solves -div(k grad T) = s over the triangles of a Gmsh mesh with temperature
(Dirichlet) and flux (Neumann) conditions on named physical curves.

With --plot the temperature is shown in a window and the command does not
return; stop it with Ctrl-C once done.

gofea heat2d -F plate.yaml -o plate.vtk --plot`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return runHeat(cmd, InputParameters.Heat2D)
	},
}

// Heat3DCmd represents the heat3d command
var Heat3DCmd = &cobra.Command{
	Use:   "heat3d",
	Short: "Steady heat conduction over the tetrahedra of a mesh",
	Long: `
Solves -div(k grad T) = s over the tetrahedra of a Gmsh mesh with temperature
(Dirichlet) and flux (Neumann) conditions on named physical surfaces.

gofea heat3d -F block.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		return runHeat(cmd, InputParameters.Heat3D)
	},
}

func init() {
	rootCmd.AddCommand(Heat2DCmd)
	rootCmd.AddCommand(Heat3DCmd)
	addProblemFlags(Heat2DCmd)
	addProblemFlags(Heat3DCmd)
	Heat2DCmd.Flags().BoolP("plot", "g", false, "display the temperature field when done")
}

func runHeat(cmd *cobra.Command, problem InputParameters.ProblemType) (err error) {
	var (
		pr *ProblemRun
		ip *InputParameters.InputParameters
		in Heat.Input
	)
	if pr, err = newProblemRun(cmd); err != nil {
		return
	}
	if ip, err = processInput(pr, problem); err != nil {
		return
	}
	if utils.Verbosity() <= utils.Info {
		ip.Print()
	}
	if in, err = ip.HeatInput(); err != nil {
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
	var c *Heat.HeatEq
	if problem == InputParameters.Heat2D {
		var h *Heat.HeatEq2D
		if h, err = Heat.NewHeatEq2D(in, opts...); err != nil {
			return
		}
		c = h.HeatEq
	} else {
		var h *Heat.HeatEq3D
		if h, err = Heat.NewHeatEq3D(in, opts...); err != nil {
			return
		}
		c = h.HeatEq
	}
	if err = c.Solve(); err != nil {
		return
	}
	if err = c.WriteVTK(pr.OutputFile); err != nil {
		return
	}
	if pr.Plot {
		if err = plotting.PlotScalarField(c.Mesh(), "temperature"); err != nil {
			return
		}
		// the plot window needs the process alive, so clean up now and wait
		finishRun()
		select {}
	}
	return
}
