package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/goomengine/goom"
	"github.com/setanarut/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dropScene = `
bodies:
  - id: ball
    position: [0, 3, 0]
    primitives:
      - type: sphere
        radius: 1
planes:
  - normal: [0, 1, 0]
`

const brokenScene = `
bodies:
  - id: ball
    position: [0, 3, 0]
    primitives:
      - type: sphere
        radius: 1
  - id: broken
    primitives:
      - type: sphere
        radius: -1
`

func writeScene(t *testing.T) string {
	return writeFile(t, dropScene)
}

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	out, _, err := executeLogged(t, args...)
	return out, err
}

func executeLogged(t *testing.T, args ...string) (string, string, error) {
	cmd := newRunCommand()
	var out, log bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&log)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), log.String(), err
}

func TestRun(t *testing.T) {
	svg := filepath.Join(t.TempDir(), "out.svg")
	out, err := execute(t, "--scene", writeScene(t), "--steps", "60", "--every", "30", "--svg", svg, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "step 30\n")
	assert.Contains(t, out, "step 60\n")
	assert.Equal(t, 2, strings.Count(out, "ball"))

	data, err := os.ReadFile(svg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<svg "))
	assert.Contains(t, string(data), "<circle ")
	assert.Contains(t, string(data), "<line ")
}

func TestRunPrintsLastStepOnly(t *testing.T) {
	out, err := execute(t, "--scene", writeScene(t), "--steps", "5", "--every", "0", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "step "))
	assert.Contains(t, out, "step 5\n")
}

func TestRunLogsInvalidEntries(t *testing.T) {
	path := writeFile(t, brokenScene)

	out, log, err := executeLogged(t, "--scene", path, "--steps", "1", "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "ball")
	assert.NotContains(t, out, "broken")
	assert.Contains(t, log, "goom: invalid descriptor")
	assert.Contains(t, log, "skipped invalid scene entries")

	_, log, err = executeLogged(t, "--scene", path, "--steps", "1", "--log-level", "error")
	require.NoError(t, err)
	assert.NotContains(t, log, "skipped invalid scene entries")
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "--scene", writeScene(t), "--log-level", "loud")
	assert.Error(t, err)

	_, err = execute(t, "--scene", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = execute(t)
	assert.Error(t, err)
}

func TestPrintBodies(t *testing.T) {
	world := goom.NewWorld()
	_, err := world.AddBody(goom.BodyDescriptor{
		ID:         "rock",
		Static:     true,
		Position:   mgl64.Vec3{1, 2, 3},
		Primitives: []goom.PrimitiveDescriptor{{Type: "sphere", Radius: 1}},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	printBodies(&out, world, 7)
	assert.Equal(t, "step 7\n  rock             1.0000     2.0000     3.0000  static\n", out.String())
}

func TestSVGDrawerEmpty(t *testing.T) {
	var out bytes.Buffer
	_, err := NewSVGDrawer(goom.ProjectXY).WriteTo(&out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `viewBox="-1 -1 2 2"`)
}

func TestSVGDrawerFlipsY(t *testing.T) {
	d := NewSVGDrawer(goom.ProjectXY)
	d.DrawCircle(vec.Vec2{X: 1, Y: 2}, 0.5, goom.FColor{A: 1}, goom.FColor{}, nil)

	var out bytes.Buffer
	n, err := d.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(out.Len()), n)
	assert.Contains(t, out.String(), `<circle cx="1" cy="-2" r="0.5" stroke="rgba(0,0,0,1.00)" fill="none"/>`)
	// bounds of the circle plus the margin
	assert.Contains(t, out.String(), `viewBox="0 -3 2 2"`)
}
