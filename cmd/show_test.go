package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdra/portfolio/internal/content"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GIN_MODE", "test")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		langFlag = ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestShowProject(t *testing.T) {
	out, err := runCLI(t, "show", "project", "quantum-error-correction", "--style", "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Quantum Error Correction Simulator")
	assert.Contains(t, out, "Steane")
}

func TestShowPublication_Russian(t *testing.T) {
	out, err := runCLI(t, "show", "publication", "quantum-ml-challenges", "--style", "notty", "--lang", "ru")
	require.NoError(t, err)
	assert.Contains(t, out, "Аннотация")
}

func TestShow_UnknownID(t *testing.T) {
	tests := []struct {
		kind string
		want string
	}{
		{"project", "Project not found"},
		{"publication", "Publication not found"},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			out, err := runCLI(t, "show", tt.kind, "nope", "--style", "notty")
			require.Error(t, err)
			assert.ErrorIs(t, err, content.ErrNotFound)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestShow_RequiresID(t *testing.T) {
	_, err := runCLI(t, "show", "project")
	assert.Error(t, err)
}
