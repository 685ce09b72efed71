package runner

// tailWriter keeps only the last max bytes written while counting the total.
// It backs the outputTail/truncated/totalOutputChars fields of a run entry.
type tailWriter struct {
	buf   []byte
	max   int
	total int
}

func newTailWriter(max int) *tailWriter {
	return &tailWriter{max: max}
}

func (w *tailWriter) Write(p []byte) (int, error) {
	w.total += len(p)

	if len(p) >= w.max {
		w.buf = append(w.buf[:0], p[len(p)-w.max:]...)
		return len(p), nil
	}

	w.buf = append(w.buf, p...)
	if len(w.buf) > w.max {
		w.buf = w.buf[len(w.buf)-w.max:]
	}
	return len(p), nil
}

// Tail returns the retained suffix of everything written.
func (w *tailWriter) Tail() string { return string(w.buf) }

// Total returns the total byte count written, including discarded bytes.
func (w *tailWriter) Total() int { return w.total }

// Truncated reports whether any bytes were discarded.
func (w *tailWriter) Truncated() bool { return w.total > w.max }
