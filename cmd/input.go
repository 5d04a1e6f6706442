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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/gofea/InputParameters"
)

type ProblemRun struct {
	ProblemFile string
	OutputFile  string
	Plot        bool
}

func newProblemRun(cmd *cobra.Command) (pr *ProblemRun, err error) {
	pr = &ProblemRun{}
	if pr.ProblemFile, err = cmd.Flags().GetString("problemFile"); err != nil {
		return
	}
	if pr.OutputFile, err = cmd.Flags().GetString("output"); err != nil {
		return
	}
	if f := cmd.Flags().Lookup("plot"); f != nil {
		pr.Plot, _ = cmd.Flags().GetBool("plot")
	}
	return
}

// processInput reads and validates the problem file. A relative MeshFile is
// taken relative to the problem file's directory.
func processInput(pr *ProblemRun, want ...InputParameters.ProblemType) (ip *InputParameters.InputParameters, err error) {
	if len(pr.ProblemFile) == 0 {
		fmt.Printf("Example File:%s\n", InputParameters.ExampleFile())
		return nil, fmt.Errorf("must supply a problem file (-F, --problemFile) in YAML format")
	}
	var data []byte
	if data, err = os.ReadFile(pr.ProblemFile); err != nil {
		return
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", pr.ProblemFile, err)
	}
	if len(ip.Problem) == 0 && len(want) == 1 {
		ip.Problem = want[0]
	}
	var ok bool
	for _, w := range want {
		ok = ok || ip.Problem == w
	}
	if !ok {
		return nil, fmt.Errorf("%s: problem %q cannot be run by this command", pr.ProblemFile, ip.Problem)
	}
	if len(ip.MeshFile) != 0 && !filepath.IsAbs(ip.MeshFile) {
		ip.MeshFile = filepath.Join(filepath.Dir(pr.ProblemFile), ip.MeshFile)
	}
	if err = ip.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", pr.ProblemFile, err)
	}
	if len(pr.OutputFile) == 0 {
		if pr.OutputFile = ip.Output; len(pr.OutputFile) == 0 {
			pr.OutputFile = strings.TrimSuffix(pr.ProblemFile, filepath.Ext(pr.ProblemFile)) + ".vtk"
		}
	}
	return
}

func addProblemFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("problemFile", "F", "", "YAML problem file with the mesh, material and boundary conditions")
	cmd.Flags().StringP("output", "o", "", "VTK output file (default: problem file with a .vtk extension)")
}
