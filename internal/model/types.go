// Package model defines the domain types for the sim-spawner CLI.
//
// All entities in this package represent declarative model definitions as
// read from the configuration file, plus the pose types that are sent to
// the simulator's spawn service. A ModelSpec is constructed once from a
// config entry, consumed once by the spawn call, then discarded — there is
// no persistent state.
package model

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ModelKind identifies how a model's definition is obtained.
// Primitive kinds (box, sphere) are generated inline as SDF XML;
// urdf and sdf kinds resolve files on disk inside a package directory.
type ModelKind string

const (
	// KindBox is a primitive axis-aligned box. The definition is generated
	// inline, so no package is required.
	KindBox ModelKind = "box"

	// KindSphere is a primitive sphere. Like KindBox, the definition is
	// generated inline.
	KindSphere ModelKind = "sphere"

	// KindURDF resolves <package>/urdf/<name>.urdf on disk.
	KindURDF ModelKind = "urdf"

	// KindSDF resolves <package>/<base_path>/<name>/model.sdf on disk.
	KindSDF ModelKind = "sdf"
)

// String returns the string representation of ModelKind.
// This method satisfies the fmt.Stringer interface.
func (k ModelKind) String() string {
	return string(k)
}

// IsValid checks whether the ModelKind value is one of the
// predefined valid kinds.
func (k ModelKind) IsValid() bool {
	switch k {
	case KindBox, KindSphere, KindURDF, KindSDF:
		return true
	default:
		return false
	}
}

// IsPrimitive returns true if the kind is generated inline rather than
// resolved from a model file. Primitive kinds do not require a package.
func (k ModelKind) IsPrimitive() bool {
	return k == KindBox || k == KindSphere
}

// ParseModelKind converts a string to a ModelKind.
// Returns an error if the string does not match any valid kind.
func ParseModelKind(s string) (ModelKind, error) {
	kind := ModelKind(strings.ToLower(s))
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid model kind: %q (valid: box, sphere, urdf, sdf)", s)
	}
	return kind, nil
}

// Vector3 is a position in the simulated world, in meters.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Quaternion is an orientation in the simulated world.
// A valid orientation quaternion has unit norm.
type Quaternion struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// Identity returns the identity orientation (no rotation).
func Identity() Quaternion {
	return Quaternion{W: 1}
}

// Norm returns the Euclidean norm of the quaternion.
func (q Quaternion) Norm() float64 {
	return math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
}

// Normalize returns the unit quaternion pointing in the same direction.
// A zero quaternion cannot be normalized and is rejected, because it does
// not represent any orientation.
func (q Quaternion) Normalize() (Quaternion, error) {
	n := q.Norm()
	if n == 0 {
		return Quaternion{}, fmt.Errorf("cannot normalize zero quaternion")
	}
	return Quaternion{X: q.X / n, Y: q.Y / n, Z: q.Z / n, W: q.W / n}, nil
}

// Pose is a position plus orientation, ready to be sent to the spawn
// service. It is always expressed with a quaternion orientation — Euler
// input is converted before a Pose is constructed.
type Pose struct {
	Position    Vector3    `json:"position"`
	Orientation Quaternion `json:"orientation"`
}

// DefaultBasePath is the package-relative directory searched for SDF
// models when a config entry does not set base_path explicitly.
const DefaultBasePath = "models"

// ModelSpec is a single declarative model definition from the config file.
//
// The Pose field is the raw numeric vector exactly as declared:
//   - quaternion=true:  [x y z qx qy qz qw] (7 elements)
//   - quaternion=false: [x y z roll pitch yaw] (6 elements, Euler angles
//     in degrees unless radians=true)
type ModelSpec struct {
	// Name is the declared model name. For urdf/sdf kinds it is also the
	// file name (without extension) resolved inside the package.
	Name string `yaml:"name" json:"name"`

	// Kind selects how the model definition is obtained.
	Kind ModelKind `yaml:"type" json:"type"`

	// Package is the source package holding the model files.
	// Required for urdf/sdf kinds, unused for primitives.
	Package string `yaml:"package,omitempty" json:"package,omitempty"`

	// BasePath is the package-relative directory holding SDF models.
	// Defaults to "models" when empty.
	BasePath string `yaml:"base_path,omitempty" json:"base_path,omitempty"`

	// UniqueName is an optional explicit name to spawn under. When empty,
	// the declared Name (de-duplicated across the batch) is used.
	UniqueName string `yaml:"unique_name,omitempty" json:"unique_name,omitempty"`

	// Quaternion declares whether the orientation part of Pose is a
	// quaternion (true) or Euler roll/pitch/yaw angles (false).
	Quaternion bool `yaml:"quaternion,omitempty" json:"quaternion,omitempty"`

	// Radians declares that Euler angles are already in radians.
	// When false (the default), angles are degrees and are converted.
	Radians bool `yaml:"radians,omitempty" json:"radians,omitempty"`

	// Pose is the raw position+orientation vector, see type doc.
	Pose []float64 `yaml:"pose" json:"pose"`

	// Scale is an optional 3-vector (depth, width, height). Nil means the
	// model's natural size.
	Scale []float64 `yaml:"scale,omitempty" json:"scale,omitempty"`

	// ResolvedName is the unique name the model is spawned under.
	// It is assigned by the registry, never read from the config file.
	ResolvedName string `yaml:"-" json:"-"`
}

// poseLenQuaternion and poseLenEuler are the required Pose vector lengths
// for the two orientation encodings.
const (
	poseLenQuaternion = 7
	poseLenEuler      = 6
)

// Validate checks that the ModelSpec is internally consistent.
// It is called once per config entry right after parsing; the config
// loader prefixes errors with the entry index.
func (m *ModelSpec) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("model name must not be empty")
	}
	// Declared names become spawn names after de-duplication and end up
	// embedded in generated SDF, so they obey the same character rules as
	// explicit unique names.
	if err := ValidateName(m.Name); err != nil {
		return err
	}
	if !m.Kind.IsValid() {
		return fmt.Errorf("invalid model kind %q (valid: box, sphere, urdf, sdf)", string(m.Kind))
	}
	if !m.Kind.IsPrimitive() && m.Package == "" {
		return fmt.Errorf("model %q: kind %s requires a package", m.Name, m.Kind)
	}

	want := poseLenEuler
	if m.Quaternion {
		want = poseLenQuaternion
	}
	if len(m.Pose) != want {
		return fmt.Errorf("model %q: pose has %d elements, want %d (quaternion=%t)",
			m.Name, len(m.Pose), want, m.Quaternion)
	}

	if m.Scale != nil && len(m.Scale) != 3 {
		return fmt.Errorf("model %q: scale has %d elements, want 3", m.Name, len(m.Scale))
	}

	if m.UniqueName != "" {
		if err := ValidateName(m.UniqueName); err != nil {
			return fmt.Errorf("model %q: invalid unique_name: %w", m.Name, err)
		}
	}
	return nil
}

// SpawnName returns the name the model is spawned under: the resolved
// unique name when the registry has assigned one, the explicit unique
// name otherwise, falling back to the declared name.
func (m *ModelSpec) SpawnName() string {
	if m.ResolvedName != "" {
		return m.ResolvedName
	}
	if m.UniqueName != "" {
		return m.UniqueName
	}
	return m.Name
}

// nameRegex validates spawn names: alphanumeric, hyphens and underscores,
// starting with an alphanumeric character. Underscores must be allowed
// because de-duplication appends "_N" suffixes.
var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// ValidateName checks if the given name is valid as a unique spawn name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("invalid name %q: must contain only alphanumeric characters, hyphens and underscores, and start with an alphanumeric", name)
	}
	return nil
}

// ExitCode defines standard CLI exit codes. These codes allow scripts and
// CI systems to programmatically determine the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitConfigError indicates the config file was not found or invalid.
	ExitConfigError ExitCode = 2

	// ExitSimUnreachable indicates the spawn service did not become
	// available within the wait timeout.
	ExitSimUnreachable ExitCode = 3

	// ExitResourceNotFound indicates a package or model file referenced
	// by the config could not be resolved on disk.
	ExitResourceNotFound ExitCode = 4

	// ExitSpawnFailed indicates one or more spawn calls failed.
	// The batch still runs to completion — this code reports that at
	// least one model did not spawn.
	ExitSpawnFailed ExitCode = 5

	// ExitModelNotFound indicates the named model does not exist in the
	// running world.
	ExitModelNotFound ExitCode = 6

	// ExitDockerError indicates the Docker daemon is not accessible or a
	// simulator container operation failed.
	ExitDockerError ExitCode = 7
)

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
