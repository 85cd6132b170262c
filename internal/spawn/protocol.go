// Package spawn implements the client side of the simulator's spawn
// service: a delimiter-framed JSON protocol over TCP.
//
// Each request is a single JSON object followed by the frame delimiter;
// the service answers with one JSON object framed the same way. The
// protocol is simulator-defined — this package only speaks it, it does
// not define it.
package spawn

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shinji-kodama/sim-spawner/internal/model"
)

// frameDelimiter terminates every message on the wire. The simulator uses
// a marker that cannot appear in JSON output, so a plain substring scan is
// enough to find the end of a frame.
const frameDelimiter = "<???DONE???---"

// Request type values understood by the spawn service.
const (
	// TypeSpawn instantiates a model in the world.
	TypeSpawn = "spawn_model"

	// TypeDelete removes a model from the world by unique name.
	TypeDelete = "delete_model"

	// TypeList returns the unique names of all models in the world.
	TypeList = "list_models"
)

// Request is a single call to the spawn service.
type Request struct {
	// Type selects the operation: spawn_model, delete_model, list_models.
	Type string `json:"type"`

	// Name is the unique name the model is spawned under or deleted by.
	Name string `json:"name,omitempty"`

	// ModelXML is the model definition text (SDF or URDF XML).
	// Only set for spawn_model.
	ModelXML string `json:"model_xml,omitempty"`

	// Pose is the spawn pose. Only set for spawn_model.
	Pose *model.Pose `json:"pose,omitempty"`

	// Scale is the optional 3-vector scale. Only set for spawn_model.
	Scale []float64 `json:"scale,omitempty"`

	// World is the target world name.
	World string `json:"world,omitempty"`
}

// Response is the service's answer to a Request.
type Response struct {
	// Success reports whether the operation was applied.
	Success bool `json:"success"`

	// StatusMessage is the service's human-readable result description,
	// set on both success and failure.
	StatusMessage string `json:"status_message"`

	// Models lists unique model names. Only set for list_models.
	Models []string `json:"models,omitempty"`
}

// NewSpawnRequest builds the spawn_model request for a resolved model.
func NewSpawnRequest(name, modelXML string, p model.Pose, scale []float64, world string) *Request {
	return &Request{
		Type:     TypeSpawn,
		Name:     name,
		ModelXML: modelXML,
		Pose:     &p,
		Scale:    scale,
		World:    world,
	}
}

// writeFrame marshals a request and writes it to w followed by the frame
// delimiter.
func writeFrame(w io.Writer, req *Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	data = append(data, []byte(frameDelimiter)...)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write request: %w", err)
	}
	return nil
}

// readFrame reads from r until the frame delimiter and unmarshals the
// preceding bytes into a Response.
//
// The reader scans delimiter-terminated chunks rather than lines because
// the service does not newline-terminate its frames. Read deadlines are
// the caller's responsibility (set on the underlying net.Conn).
func readFrame(r io.Reader) (*Response, error) {
	br := bufio.NewReader(r)
	var builder strings.Builder

	// The last byte of the delimiter is '-', so reading up to '-' always
	// makes progress toward a complete frame.
	for {
		chunk, err := br.ReadString('-')
		builder.WriteString(chunk)
		if strings.Contains(builder.String(), frameDelimiter) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
	}

	payload := strings.TrimSpace(strings.ReplaceAll(builder.String(), frameDelimiter, ""))

	var resp Response
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}
