package InputParameters

import (
	"errors"
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
	"go.uber.org/multierr"

	"github.com/notargets/gofea/linalg"
	"github.com/notargets/gofea/model_problems/Heat"
	"github.com/notargets/gofea/model_problems/Mechanical"
)

type ProblemType string

const (
	Heat2D        ProblemType = "heat2d"
	Heat3D        ProblemType = "heat3d"
	MechanicalPT  ProblemType = "mechanical"
	exampleHeat2D             = `
########################################
Title: "Plate"
Problem: heat2d
MeshFile: plate.msh
ThermalConductivity: 1.
DirichletBCs:
  left: [0.]
  right: [100.]
NeumannBCs:
  top: [5.]
Solver:
  Method: gmres
  RelTol: 1.e-10
########################################
`
)

var ErrInvalidParameters = errors.New("invalid input parameters")

// Parameters obtained from the YAML input file
type InputParameters struct {
	Title               string               `yaml:"Title"`
	Problem             ProblemType          `yaml:"Problem"`
	MeshFile            string               `yaml:"MeshFile"`
	ThermalConductivity float64              `yaml:"ThermalConductivity"`
	HeatSource          float64              `yaml:"HeatSource"`
	YoungsModulus       float64              `yaml:"YoungsModulus"`
	PoissonRatio        float64              `yaml:"PoissonRatio"`
	DirichletBCs        map[string][]float64 `yaml:"DirichletBCs"` // keyed by physical group name
	NeumannBCs          map[string][]float64 `yaml:"NeumannBCs"`
	Solver              linalg.SolverOptions `yaml:"Solver"`
	Output              string               `yaml:"Output"`
}

func ExampleFile() string { return exampleHeat2D }

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

// Validate checks the parameters needed by ip.Problem, reporting every
// problem found
func (ip *InputParameters) Validate() (err error) {
	if len(ip.MeshFile) == 0 {
		err = multierr.Append(err, fmt.Errorf("%w: MeshFile is required", ErrInvalidParameters))
	}
	if _, merr := ip.SolverOptions(); merr != nil {
		err = multierr.Append(err, merr)
	}
	switch ip.Problem {
	case Heat2D, Heat3D:
		in, merr := ip.HeatInput()
		err = multierr.Append(err, merr)
		if merr == nil {
			err = multierr.Append(err, in.Validate())
		}
	case MechanicalPT:
		in, merr := ip.MechanicalInput()
		err = multierr.Append(err, merr)
		if merr == nil {
			err = multierr.Append(err, in.Validate())
		}
	default:
		err = multierr.Append(err, fmt.Errorf("%w: unknown Problem %q, want one of %s, %s, %s",
			ErrInvalidParameters, ip.Problem, Heat2D, Heat3D, MechanicalPT))
	}
	return
}

// SolverOptions returns the Solver section with the method name normalized.
// Zero fields take the solver defaults.
func (ip *InputParameters) SolverOptions() (opts linalg.SolverOptions, err error) {
	opts = ip.Solver
	if len(opts.Method) != 0 {
		opts.Method, err = linalg.ParseMethod(string(opts.Method))
	}
	return
}

// HeatInput converts the boundary values, which must be scalars
func (ip *InputParameters) HeatInput() (in Heat.Input, err error) {
	in = Heat.Input{
		MeshFile:            ip.MeshFile,
		ThermalConductivity: ip.ThermalConductivity,
		HeatSource:          ip.HeatSource,
		DirichletBCs:        make(map[string]float64),
		NeumannBCs:          make(map[string]float64),
	}
	for _, bc := range []struct {
		kind string
		from map[string][]float64
		to   map[string]float64
	}{{"DirichletBCs", ip.DirichletBCs, in.DirichletBCs}, {"NeumannBCs", ip.NeumannBCs, in.NeumannBCs}} {
		for _, name := range sortedKeys(bc.from) {
			v := bc.from[name]
			if len(v) != 1 {
				err = multierr.Append(err, fmt.Errorf("%w: %s[%s] has %d values, want 1",
					ErrInvalidParameters, bc.kind, name, len(v)))
				continue
			}
			bc.to[name] = v[0]
		}
	}
	return
}

// MechanicalInput converts the boundary values, which must have three
// components
func (ip *InputParameters) MechanicalInput() (in Mechanical.Input, err error) {
	in = Mechanical.Input{
		MeshFile:      ip.MeshFile,
		YoungsModulus: ip.YoungsModulus,
		PoissonRatio:  ip.PoissonRatio,
		DirichletBCs:  make(map[string][3]float64),
		NeumannBCs:    make(map[string][3]float64),
	}
	for _, bc := range []struct {
		kind string
		from map[string][]float64
		to   map[string][3]float64
	}{{"DirichletBCs", ip.DirichletBCs, in.DirichletBCs}, {"NeumannBCs", ip.NeumannBCs, in.NeumannBCs}} {
		for _, name := range sortedKeys(bc.from) {
			v := bc.from[name]
			if len(v) != 3 {
				err = multierr.Append(err, fmt.Errorf("%w: %s[%s] has %d values, want 3",
					ErrInvalidParameters, bc.kind, name, len(v)))
				continue
			}
			bc.to[name] = [3]float64{v[0], v[1], v[2]}
		}
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Problem\n", ip.Problem)
	fmt.Printf("[%s]\t\t= MeshFile\n", ip.MeshFile)
	switch ip.Problem {
	case MechanicalPT:
		fmt.Printf("%8.5g\t\t= YoungsModulus\n", ip.YoungsModulus)
		fmt.Printf("%8.5f\t\t= PoissonRatio\n", ip.PoissonRatio)
	default:
		fmt.Printf("%8.5f\t\t= ThermalConductivity\n", ip.ThermalConductivity)
		fmt.Printf("%8.5f\t\t= HeatSource\n", ip.HeatSource)
	}
	for _, key := range sortedKeys(ip.DirichletBCs) {
		fmt.Printf("DirichletBCs[%s] = %v\n", key, ip.DirichletBCs[key])
	}
	for _, key := range sortedKeys(ip.NeumannBCs) {
		fmt.Printf("NeumannBCs[%s] = %v\n", key, ip.NeumannBCs[key])
	}
	if len(ip.Solver.Method) != 0 {
		fmt.Printf("[%s]\t\t\t= Solver\n", ip.Solver.Method)
	}
}

func sortedKeys(m map[string][]float64) (keys []string) {
	keys = make([]string, len(m))
	i := 0
	for k := range m {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	return
}
