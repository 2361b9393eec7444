package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	subjectiveText    = `[{"Relevance":5,"Clarity":4,"Persuasiveness":5}]`
	logicText         = `[{"Content-Matching":4,"Logic-Clarity":4}]`
	hallucinationText = `[{"Hallucination-Risk":0,"Explanatory Validity":5}]`
)

// executeCommand runs the root command with args and returns what it wrote to stdout.
func executeCommand(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	if stdin != nil {
		cmd.SetIn(stdin)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestCheckFailureError(t *testing.T) {
	err := &CheckFailureError{
		Message: "2 of 6 judge outputs failed validation",
	}

	assert.Equal(t, "2 of 6 judge outputs failed validation", err.Error())
}

func TestErrorTypeDetection(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCheck bool
	}{
		{
			name:      "CheckFailureError",
			err:       &CheckFailureError{Message: "check failure"},
			wantCheck: true,
		},
		{
			name:      "regular error",
			err:       errors.New("config error"),
			wantCheck: false,
		},
		{
			name:      "wrapped CheckFailureError",
			err:       errors.Join(&CheckFailureError{Message: "check failure"}, errors.New("additional context")),
			wantCheck: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checkErr *CheckFailureError
			assert.Equal(t, tt.wantCheck, errors.As(tt.err, &checkErr))
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"score", "run", "check", "weights"})
	assert.NotNil(t, root.PersistentFlags().Lookup("debug"))
}

func TestParseWeights(t *testing.T) {
	tests := []struct {
		in      string
		want    [3]float64
		wantErr string
	}{
		{in: "0.4,0.3,0.3", want: [3]float64{0.4, 0.3, 0.3}},
		{in: " 1 , 0 , 0 ", want: [3]float64{1, 0, 0}},
		{in: "0.5,0.5", wantErr: "three comma-separated numbers"},
		{in: "a,b,c", wantErr: "invalid weights"},
		{in: "1,-1,0", wantErr: "non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, err := parseWeights(tt.in)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, [3]float64{w.Subjective, w.Logic, w.Hallucination})
		})
	}
}
