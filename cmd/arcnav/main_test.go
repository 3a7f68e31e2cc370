package main

import (
	"errors"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "help", err: &flags.Error{Type: flags.ErrHelp}, want: 0},
		{name: "required", err: &flags.Error{Type: flags.ErrRequired}, want: 2},
		{name: "unknown flags error", err: &flags.Error{Type: flags.ErrUnknown}, want: 1},
		{name: "command error", err: errors.New("extract error: boom"), want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
