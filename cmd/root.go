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
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gofea/assembly"
	"github.com/notargets/gofea/linalg"
	"github.com/notargets/gofea/utils"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gofea",
	Short: "Finite element solvers for steady heat conduction and linear elasticity",
	Long: `
Solves steady heat conduction in 2D and 3D and linear elasticity in 3D on
unstructured Gmsh meshes of line, triangle and tetrahedral elements of order
one or two, writing the nodal solution fields in legacy VTK format.

gofea heat2d -F plate.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		var level utils.Level
		if level, err = utils.ParseLevel(viper.GetString("verbosity")); err != nil {
			return
		}
		utils.SetVerbosity(level)
		if used := viper.ConfigFileUsed(); len(used) != 0 {
			utils.Debugf("using config file: %s", used)
		}
		switch p := viper.GetString("profile"); p {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		default:
			err = fmt.Errorf("unknown profile type %q, want cpu or mem", p)
		}
		return
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		finishRun()
	},
}

// finishRun reports memory use and stops any running profile. It is safe to
// call more than once.
func finishRun() {
	utils.Debugf("%s", utils.GetMemUsage())
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gofea.yaml)")
	pf.StringP("verbosity", "v", "Info", "log level: Debug, Info, Warn or Error")
	pf.String("solver", "", "linear solver: gmres, cg or lu (overrides the problem file)")
	pf.Float64("rtol", 0, "relative tolerance of the iterative solvers")
	pf.Int("maxiter", 0, "maximum iterations of the iterative solvers")
	pf.Int("workers", 1, "number of goroutines used for element assembly, 0 for one per CPU")
	pf.Bool("partition", false, "group elements per worker with a METIS partition")
	pf.String("profile", "", "write a cpu or mem profile to the current directory")
	for _, name := range []string{"verbosity", "solver", "rtol", "maxiter", "workers", "partition", "profile"} {
		if err := viper.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gofea" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".gofea")
	}

	viper.SetEnvPrefix("GOFEA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Printf("unable to read config file %s: %v\n", cfgFile, err)
	}
}

// assemblerOptions merges the runtime settings over the problem file solver
// section
func assemblerOptions(solver linalg.SolverOptions) (opts []assembly.Option, err error) {
	if viper.IsSet("solver") && len(viper.GetString("solver")) != 0 {
		if solver.Method, err = linalg.ParseMethod(viper.GetString("solver")); err != nil {
			return
		}
	}
	if viper.IsSet("rtol") {
		solver.RelTol = viper.GetFloat64("rtol")
	}
	if viper.IsSet("maxiter") {
		solver.MaxIter = viper.GetInt("maxiter")
	}
	workers := viper.GetInt("workers")
	if workers == 0 {
		workers = utils.DefaultParallelDegree()
	}
	opts = []assembly.Option{
		assembly.WithSolverOptions(solver),
		assembly.WithWorkers(workers),
		assembly.WithPartition(viper.GetBool("partition")),
	}
	return
}
