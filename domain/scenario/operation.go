package scenario

import (
	"time"

	"scenforge/domain/sample"
)

// Operation is one scheduled field-generation step. The set of kinds is
// closed: the engine switches exhaustively over the concrete types below
// and treats anything else as an input error.
type Operation interface {
	// TargetPath is the dot-separated location the produced value is
	// written to.
	TargetPath() string

	isOperation()
}

// GaussianOp writes mean + z*stdDev noise at Path.
type GaussianOp struct {
	Path   string
	Mean   float64
	StdDev float64
}

// UniformOp writes a draw from the half-open interval [Min,Max) at Path.
type UniformOp struct {
	Path string
	Min  float64
	Max  float64
}

// PoissonOp writes a count drawn at rate Lambda at Path.
type PoissonOp struct {
	Path   string
	Lambda float64
}

// CategoricalOp writes a label selected from the ordered weight list.
type CategoricalOp struct {
	Path    string
	Weights sample.Weights
}

// GenerativeOp writes text produced by the named provider, raced against
// Timeout when positive and rescued by Fallback when set.
type GenerativeOp struct {
	Path     string
	Provider string
	Prompt   string
	Model    string
	Timeout  time.Duration
	Fallback *string
}

func (o GaussianOp) TargetPath() string    { return o.Path }
func (o UniformOp) TargetPath() string     { return o.Path }
func (o PoissonOp) TargetPath() string     { return o.Path }
func (o CategoricalOp) TargetPath() string { return o.Path }
func (o GenerativeOp) TargetPath() string  { return o.Path }

func (GaussianOp) isOperation()    {}
func (UniformOp) isOperation()     {}
func (PoissonOp) isOperation()     {}
func (CategoricalOp) isOperation() {}
func (GenerativeOp) isOperation()  {}
