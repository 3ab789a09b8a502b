package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExampleScenarioRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := exampleScenario().Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	s, err := DecodeScenario(&buf)
	if err != nil {
		t.Fatalf("DecodeScenario() error = %v\n%s", err, buf.String())
	}
	want := exampleScenario()
	if s.Name != want.Name || len(s.Resources) != len(want.Resources) || len(s.Steps) != len(want.Steps) {
		t.Errorf("decoded %q with %d resources and %d steps, want %q with %d and %d",
			s.Name, len(s.Resources), len(s.Steps), want.Name, len(want.Resources), len(want.Steps))
	}
}

func TestDecodeScenario(t *testing.T) {
	src := `
name = "two buffers"

[[resource]]
id = "a"
kind = "buffer"
target = "ARRAY_BUFFER"

[[resource]]
id = "b"
kind = "buffer"
target = "gl.ARRAY_BUFFER"

[[step]]
op = "bind"
id = "a"

[[step]]
op = "with"
id = "b"

  [[step.steps]]
  op = "unbind"
  id = "b"
`
	s, err := DecodeScenario(strings.NewReader(src))
	if err != nil {
		t.Fatalf("DecodeScenario() error = %v", err)
	}
	if len(s.Steps) != 2 || len(s.Steps[1].Steps) != 1 {
		t.Errorf("steps = %+v, want a with step holding one nested step", s.Steps)
	}
}

func TestScenarioValidate(t *testing.T) {
	buffer := Resource{ID: "vbo", Kind: kindBuffer}
	texture := Resource{ID: "tex", Kind: kindTexture}
	fbo := Resource{ID: "fbo", Kind: kindFramebuffer}
	tests := []struct {
		name string
		s    Scenario
		want string
	}{
		{"missing id", Scenario{Resources: []Resource{{Kind: kindBuffer}}}, "without id"},
		{"duplicate", Scenario{Resources: []Resource{buffer, buffer}}, "duplicate"},
		{"unknown kind", Scenario{Resources: []Resource{{ID: "x", Kind: "sampler"}}}, "unknown kind"},
		{"bad target", Scenario{Resources: []Resource{{ID: "x", Kind: kindBuffer, Target: "NOPE"}}}, "unknown enum"},
		{"bad format", Scenario{Resources: []Resource{{ID: "x", Kind: kindTexture, Format: "bgra9"}}}, "unknown format"},
		{"unknown resource", Scenario{Steps: []Step{{Op: opBind, ID: "ghost"}}}, "unknown resource"},
		{"unknown op", Scenario{Resources: []Resource{buffer}, Steps: []Step{{Op: "draw", ID: "vbo"}}}, "unknown op"},
		{"wrong kind", Scenario{Resources: []Resource{buffer}, Steps: []Step{{Op: opUnit, ID: "vbo"}}}, "needs a texture"},
		{"bad point", Scenario{Resources: []Resource{fbo, texture}, Steps: []Step{{Op: opAttach, ID: "fbo", Point: "PORT", Source: "tex"}}}, "unknown enum"},
		{"bad source", Scenario{Resources: []Resource{fbo, buffer}, Steps: []Step{{Op: opAttach, ID: "fbo", Point: "COLOR_ATTACHMENT0", Source: "vbo"}}}, "not a texture"},
		{"nested", Scenario{Resources: []Resource{buffer}, Steps: []Step{{Op: opWith, ID: "vbo", Steps: []Step{{Op: opBind, ID: "ghost"}}}}}, "unknown resource"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if !errors.Is(err, errScenario) || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestDecodeScenarioUnknownKey(t *testing.T) {
	_, err := DecodeScenario(strings.NewReader("name = \"x\"\ncolour = 1\n"))
	if !errors.Is(err, errScenario) {
		t.Errorf("DecodeScenario() error = %v, want errScenario", err)
	}
}
