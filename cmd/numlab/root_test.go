package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tb0hdan/numlab/pkg/methods"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, ServerName, cmd.Use)
	assert.Equal(t, version(), cmd.Version)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"serve", "solve", "methods", "version"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestServeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	serveCmd, _, err := cmd.Find([]string{"serve"})
	require.NoError(t, err)

	assert.NotNil(t, serveCmd.Flags().Lookup("bind"))
	assert.NotNil(t, serveCmd.Flags().Lookup("db"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("env-file"))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, ServiceName)
	assert.Contains(t, out, version())
}

func TestMethodsCommand(t *testing.T) {
	out, err := execute(t, "", "methods")
	require.NoError(t, err)
	assert.Contains(t, out, "SLUG")
	assert.Contains(t, out, "/GaussSeidel")
	assert.NotContains(t, out, "home")
}

func TestMethodsCommand_JSON(t *testing.T) {
	out, err := execute(t, "", "methods", "--json")
	require.NoError(t, err)

	var list []methods.Method
	require.NoError(t, json.Unmarshal([]byte(out), &list))
	assert.Len(t, list, len(methods.Catalog())-1)
}

func TestSolveCommand(t *testing.T) {
	out, err := execute(t, "", "solve", "bisection", "--params", `{"equation":"x^2-4","a":0,"b":5,"epsilon":1e-6}`)
	require.NoError(t, err)

	var result struct {
		Root float64 `json:"root"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.InDelta(t, 2.0, result.Root, 1e-5)
}

func TestSolveCommand_Stdin(t *testing.T) {
	out, err := execute(t, `{"matrix":[[4,1],[1,3]],"vector":[1,2]}`, "solve", "/Cholesky", "--params", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "x")
}

func TestSolveCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown method", []string{"solve", "annealing"}},
		{"bad json", []string{"solve", "bisection", "--params", "{"}},
		{"no sign change", []string{"solve", "bisection", "--params", `{"equation":"x^2+1","a":0,"b":5}`}},
		{"missing method", []string{"solve"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestNewLogger_Level(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())

	newLogger(false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	var buf bytes.Buffer
	l := zerolog.New(&buf)
	l.Debug().Msg("hidden")
	assert.Empty(t, buf.String())

	newLogger(true)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
