package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  hello world \n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	assert.Error(t, err)
}

func TestReadLines(t *testing.T) {
	ch := readLines(context.Background(), rdr("first\r\n\n  indented\nlast"))

	var got []string
	for l := range ch {
		got = append(got, l)
	}
	assert.Equal(t, []string{"first", "", "  indented", "last"}, got)
}

func TestReadLines_Cancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := readLines(ctx, rdr("a\nb\nc\n"))

	assert.Equal(t, "a", <-ch)
	cancel()
	for range ch {
	}
}

func TestAppendLine(t *testing.T) {
	assert.Equal(t, "a", appendLine("", "a"))
	assert.Equal(t, "a\nb", appendLine("a", "b"))
}
