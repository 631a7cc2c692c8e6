package version

import (
	"fmt"
	"io"
	"runtime"
)

var (
	// Version is set at build time with -ldflags "-X .../version.Version=...".
	Version string = "dev"
)

func Fprint(w io.Writer) {
	fmt.Fprintf(w, "serpent version %s\n", Version)
	fmt.Fprintf(w, "%s/%s %s\n", runtime.GOOS, runtime.GOARCH, runtime.Version())
}
