package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestPrintRecent(t *testing.T) {
	var buf bytes.Buffer
	printRecent(&buf, []core.Message{
		{Role: core.RoleUser, Content: "Will it rain in Kochi?", CreatedAt: time.Now()},
		{Role: core.RoleAssistant, Content: "The monsoon reached Kerala early.", CreatedAt: time.Now()},
	})

	out := buf.String()
	assert.Contains(t, out, "Recent messages:")
	assert.Contains(t, out, "Will it rain in Kochi?")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("Will it rain")), bytes.Index(buf.Bytes(), []byte("The monsoon")))
}

func TestPrintRecent_Empty(t *testing.T) {
	var buf bytes.Buffer
	printRecent(&buf, nil)
	assert.Empty(t, buf.String())
}
