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
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/gofea/mesh"
)

// SurfaceMeshCmd represents the surface_mesh command
var SurfaceMeshCmd = &cobra.Command{
	Use:   "surface_mesh",
	Short: "Write the boundary physical groups of a mesh as separate VTK files",
	Long: `
Writes one VTK file per physical group one dimension below the mesh dimension,
named <base>_<group>.vtk, to check boundary tagging before a solve.

gofea surface_mesh -m bracket.msh -b out/bracket`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			meshFile, base string
			m              *mesh.Mesh
			paths          []string
		)
		if meshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			return
		}
		if base, err = cmd.Flags().GetString("base"); err != nil {
			return
		}
		if len(base) == 0 {
			base = strings.TrimSuffix(meshFile, filepath.Ext(meshFile))
		}
		if m, err = readMesh(meshFile); err != nil {
			return
		}
		if paths, err = m.WriteSurfaceMesh(base); err != nil {
			return
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return
	},
}

// InfoCmd represents the info command
var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the element counts, physical groups and partition quality of a mesh",
	Long: `
Reads a Gmsh mesh and prints node and element counts per dimension with the
physical groups of each dimension. With --parts the top dimension elements are
partitioned with METIS and the part sizes reported.

gofea info -m bracket.msh --parts 8`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			meshFile string
			parts    int
			m        *mesh.Mesh
		)
		if meshFile, err = cmd.Flags().GetString("meshFile"); err != nil {
			return
		}
		if parts, err = cmd.Flags().GetInt("parts"); err != nil {
			return
		}
		if m, err = readMesh(meshFile); err != nil {
			return
		}
		m.PrintStatistics()
		if parts > 1 {
			dim := m.Dimension()
			var part []int
			if part, err = m.Partition(dim, mesh.DefaultPartitionConfig(int32(parts))); err != nil {
				return
			}
			counts := make([]int, parts)
			for _, p := range part {
				counts[p]++
			}
			fmt.Printf("%d parts of dimension %d elements: %v\n", parts, dim, counts)
		}
		return
	},
}

func readMesh(meshFile string) (m *mesh.Mesh, err error) {
	if len(meshFile) == 0 {
		return nil, fmt.Errorf("must supply a mesh file (-m, --meshFile) in Gmsh (.msh) format")
	}
	return mesh.ReadMeshFile(meshFile)
}

func init() {
	rootCmd.AddCommand(SurfaceMeshCmd)
	rootCmd.AddCommand(InfoCmd)
	SurfaceMeshCmd.Flags().StringP("meshFile", "m", "", "Gmsh (.msh) mesh file")
	SurfaceMeshCmd.Flags().StringP("base", "b", "", "output file prefix (default: mesh file without extension)")
	InfoCmd.Flags().StringP("meshFile", "m", "", "Gmsh (.msh) mesh file")
	InfoCmd.Flags().IntP("parts", "p", 0, "partition the elements into this many parts")
}
