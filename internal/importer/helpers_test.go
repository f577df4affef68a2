package importer

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

// syncBuffer is a bytes.Buffer safe for the progress bar's writes.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}
