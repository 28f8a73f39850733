package server

import (
	"context"
	"io"
	"os"

	"github.com/sourcegraph/jsonrpc2"
)

// RunStdio serves one editor connection over stdin/stdout using the
// standard Content-Length framed codec, blocking until the client
// disconnects or ctx is cancelled.
func RunStdio(ctx context.Context, s *Server) error {
	return Run(ctx, s, &stdioReadWriteCloser{reader: os.Stdin, writer: os.Stdout})
}

// Run serves one connection over an arbitrary transport.
func Run(ctx context.Context, s *Server, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, s.Handler())
	select {
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	case <-conn.DisconnectNotify():
		return nil
	}
}

type stdioReadWriteCloser struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error)  { return s.reader.Read(p) }
func (s *stdioReadWriteCloser) Write(p []byte) (int, error) { return s.writer.Write(p) }
func (s *stdioReadWriteCloser) Close() error {
	_ = s.reader.Close()
	return s.writer.Close()
}
