package version

import (
	"fmt"
	"io"
	"runtime/debug"
)

func GetVersion() *debug.BuildInfo {
	bi, _ := debug.ReadBuildInfo()
	return bi
}

// String returns "<program> <module version>", falling back to "(devel)"
// when no module version is recorded.
func String(program string) string {
	v := "(devel)"

	bi := GetVersion()
	if bi != nil && bi.Main.Version != "" {
		v = bi.Main.Version
	}

	return fmt.Sprintf("%s %s", program, v)
}

// Print writes the version line, and the full build information when
// verbose is set.
func Print(w io.Writer, program string, verbose bool) error {
	_, err := fmt.Fprintln(w, String(program))
	if err != nil {
		return err
	}

	if !verbose {
		return nil
	}

	bi := GetVersion()
	if bi == nil {
		return fmt.Errorf("ReadBuildInfo() failed")
	}

	_, err = fmt.Fprintf(w, "%s", bi)
	return err
}
