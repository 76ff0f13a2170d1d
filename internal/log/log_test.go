// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package log

import (
	"bytes"
	"strings"
	"testing"

	apex "github.com/apex/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want severity
	}{
		{"trace", "trace", sevTrace},
		{"debug", "debug", sevDebug},
		{"info", "info", sevInfo},
		{"warn", "warn", sevWarn},
		{"error", "error", sevError},
		{"fatal", "fatal", sevFatal},
		{"mixed case", "Debug", sevDebug},
		{"empty defaults to error", "", sevError},
		{"unknown defaults to error", "loud", sevError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSeverity(tt.in))
		})
	}
}

func TestSeverity_Ordered(t *testing.T) {
	// The numeric ordering is what level checks rely on.
	assert.True(t, sevTrace < sevDebug)
	assert.True(t, sevDebug < sevInfo)
	assert.True(t, sevInfo < sevWarn)
	assert.True(t, sevWarn < sevError)
	assert.True(t, sevError < sevFatal)
}

func TestSeverity_ApexMapping(t *testing.T) {
	assert.Equal(t, apex.DebugLevel, sevTrace.apex())
	assert.Equal(t, apex.DebugLevel, sevDebug.apex())
	assert.Equal(t, apex.InfoLevel, sevInfo.apex())
	assert.Equal(t, apex.WarnLevel, sevWarn.apex())
	assert.Equal(t, apex.ErrorLevel, sevError.apex())
	assert.Equal(t, apex.FatalLevel, sevFatal.apex())
}

func TestHandleLog_Markers(t *testing.T) {
	var buf bytes.Buffer
	h := &CustomHandler{Out: &buf}

	require.NoError(t, h.HandleLog(&apex.Entry{Level: apex.InfoLevel, Message: "manifest loaded"}))
	require.NoError(t, h.HandleLog(&apex.Entry{Level: apex.DebugLevel, Message: "TRACE: raw row"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} I manifest loaded$`, lines[0])
	// A trace entry arrives at debug level and the prefix becomes the marker.
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} T raw row$`, lines[1])
}
