package version_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amterp/jsonfmt/pkg/version"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Parallel()

	s := version.String("jsonfmt")
	require.True(t, strings.HasPrefix(s, "jsonfmt "), s)
	require.Greater(t, len(s), len("jsonfmt "))
}

func TestPrint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, version.Print(&buf, "jsonfmt", false))
	require.Equal(t, version.String("jsonfmt")+"\n", buf.String())
}
