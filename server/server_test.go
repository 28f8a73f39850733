package server

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
)

func newTestServer() *Server {
	return New(log.New(io.Discard, "", 0))
}

func request(t *testing.T, method string, params interface{}) *jsonrpc2.Request {
	t.Helper()
	req := &jsonrpc2.Request{Method: method}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		msg := json.RawMessage(raw)
		req.Params = &msg
	}
	return req
}

func openDoc(t *testing.T, s *Server, uri, language, text string) {
	t.Helper()
	_, err := s.handle(context.Background(), nil, request(t, "textDocument/didOpen", protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        protocol.DocumentURI(uri),
			LanguageID: protocol.LanguageIdentifier(language),
			Version:    1,
			Text:       text,
		},
	}))
	require.NoError(t, err)
}

func symbolsFor(t *testing.T, s *Server, uri string) []protocol.DocumentSymbol {
	t.Helper()
	result, err := s.handle(context.Background(), nil, request(t, "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentURI(uri)},
	}))
	require.NoError(t, err)
	symbols, ok := result.([]protocol.DocumentSymbol)
	require.True(t, ok)
	return symbols
}

func TestInitialize(t *testing.T) {
	s := newTestServer()
	result, err := s.handle(context.Background(), nil, request(t, "initialize", protocol.InitializeParams{}))
	require.NoError(t, err)
	init, ok := result.(*protocol.InitializeResult)
	require.True(t, ok)

	sync, ok := init.Capabilities.TextDocumentSync.(protocol.TextDocumentSyncOptions)
	require.True(t, ok)
	assert.True(t, sync.OpenClose)
	assert.Equal(t, protocol.TextDocumentSyncKindFull, sync.Change)
	assert.Equal(t, true, init.Capabilities.DocumentSymbolProvider)
	assert.Equal(t, "swiftline", init.ServerInfo.Name)
}

func TestDocumentSymbolFlow(t *testing.T) {
	s := newTestServer()
	openDoc(t, s, "file:///a.swift", "swift", `class Widget {
    var size = 0
}`)

	symbols := symbolsFor(t, s, "file:///a.swift")
	require.Len(t, symbols, 1)
	assert.Equal(t, "Widget", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindClass, symbols[0].Kind)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, "size", symbols[0].Children[0].Name)
	assert.Equal(t, protocol.SymbolKindProperty, symbols[0].Children[0].Kind)
}

func TestDidChangeReplacesSnapshot(t *testing.T) {
	s := newTestServer()
	openDoc(t, s, "file:///a.swift", "swift", `struct Before {}`)

	_, err := s.handle(context.Background(), nil, request(t, "textDocument/didChange", protocol.DidChangeTextDocumentParams{
		TextDocument: protocol.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "file:///a.swift"},
			Version:                2,
		},
		ContentChanges: []protocol.TextDocumentContentChangeEvent{{Text: `struct After {}`}},
	}))
	require.NoError(t, err)

	symbols := symbolsFor(t, s, "file:///a.swift")
	require.Len(t, symbols, 1)
	assert.Equal(t, "After", symbols[0].Name)
}

func TestDocumentSymbolUnknownDocument(t *testing.T) {
	s := newTestServer()
	_, err := s.handle(context.Background(), nil, request(t, "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///missing.swift"},
	}))
	require.Error(t, err)
	rpcErr, ok := err.(*jsonrpc2.Error)
	require.True(t, ok)
	assert.Equal(t, int64(jsonrpc2.CodeInvalidParams), rpcErr.Code)
}

func TestDocumentSymbolUnknownLanguage(t *testing.T) {
	s := newTestServer()
	openDoc(t, s, "file:///a.rb", "ruby", "class Widget; end")
	assert.Empty(t, symbolsFor(t, s, "file:///a.rb"))
}

func TestDocumentSymbolEmptyFile(t *testing.T) {
	s := newTestServer()
	openDoc(t, s, "file:///empty.swift", "swift", "")
	symbols := symbolsFor(t, s, "file:///empty.swift")
	assert.NotNil(t, symbols)
	assert.Empty(t, symbols)
}

func TestDidCloseForgetsDocument(t *testing.T) {
	s := newTestServer()
	openDoc(t, s, "file:///a.swift", "swift", `struct S {}`)

	_, err := s.handle(context.Background(), nil, request(t, "textDocument/didClose", protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.swift"},
	}))
	require.NoError(t, err)

	_, err = s.handle(context.Background(), nil, request(t, "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.swift"},
	}))
	assert.Error(t, err)
}

func TestCancelledRequest(t *testing.T) {
	s := newTestServer()
	openDoc(t, s, "file:///a.swift", "swift", `struct S {}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := request(t, "textDocument/documentSymbol", protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "file:///a.swift"},
	})
	_, err := s.handle(ctx, nil, req)
	require.Error(t, err)
	rpcErr, ok := err.(*jsonrpc2.Error)
	require.True(t, ok)
	assert.Equal(t, int64(codeRequestCancelled), rpcErr.Code)
}

func TestCancelRequestNotification(t *testing.T) {
	s := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	id := jsonrpc2.ID{Num: 7}
	s.track(id, cancel)
	defer s.untrack(id)

	_, err := s.handle(context.Background(), nil, request(t, "$/cancelRequest", map[string]interface{}{"id": 7}))
	require.NoError(t, err)
	assert.Error(t, ctx.Err())
}

func TestUnknownMethod(t *testing.T) {
	s := newTestServer()
	_, err := s.handle(context.Background(), nil, request(t, "textDocument/hover", nil))
	require.Error(t, err)
	rpcErr, ok := err.(*jsonrpc2.Error)
	require.True(t, ok)
	assert.Equal(t, int64(jsonrpc2.CodeMethodNotFound), rpcErr.Code)

	notif := request(t, "workspace/didChangeConfiguration", nil)
	notif.Notif = true
	_, err = s.handle(context.Background(), nil, notif)
	assert.NoError(t, err)
}

func TestParseSharedPerVersion(t *testing.T) {
	s := newTestServer()
	openDoc(t, s, "file:///a.swift", "swift", `struct S {}`)

	doc, err := s.store.Get("file:///a.swift")
	require.NoError(t, err)
	parser, ok := s.parsers.GetParser("swift")
	require.True(t, ok)

	first := s.syntaxTree(doc, parser)
	second := s.syntaxTree(doc, parser)
	assert.Same(t, first, second)
}
