package stack

import (
	"runtime"
	"strings"
)

const maxTraceDepth = 32

// Trace returns the goroutine call stack starting at depth frames above the
// caller, one record per line, innermost call first.
func Trace(depth int) string {
	pcs := make([]uintptr, maxTraceDepth)
	n := runtime.Callers(depth+2, pcs)
	if n == 0 {
		return ""
	}

	var (
		b      strings.Builder
		frames = runtime.CallersFrames(pcs[:n])
	)
	for {
		frame, more := frames.Next()
		if strings.HasPrefix(frame.Function, "runtime.") {
			if !more {
				break
			}

			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(call{
			function: frame.PC,
			file:     frame.File,
			line:     frame.Line,
		}.Record())
		if !more {
			break
		}
	}

	return b.String()
}
