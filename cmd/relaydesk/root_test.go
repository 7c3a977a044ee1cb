package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadingFlag(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, ""},
		{"help", []string{"--help"}, "help"},
		{"short help", []string{"-h"}, "help"},
		{"version", []string{"--version"}, "version"},
		{"mode", []string{"--connect", "123456789"}, ""},
		{"peer id that looks like help", []string{"--connect", "-h"}, ""},
		{"password that looks like version", []string{"--connect", "123456789", "--version"}, ""},
		{"file named help", []string{"--play", "--help"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, leadingFlag(tt.args))
		})
	}
}
