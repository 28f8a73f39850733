package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/sourcegraph/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/lexcodex/swiftline/outline"
	"github.com/lexcodex/swiftline/syntax"
	"github.com/lexcodex/swiftline/textdoc"
)

// Version is reported to clients during the initialize handshake.
const Version = "0.1.0"

// codeRequestCancelled is the LSP error code for cancelled requests.
const codeRequestCancelled = -32800

// Server answers LSP requests for document outlines. Documents and
// parsed trees are immutable per version, so concurrent requests only
// synchronize on the two lookup maps.
type Server struct {
	store   *textdoc.Store
	parsers *syntax.ParserRegistry
	logger  *log.Logger

	treeMu sync.Mutex
	trees  map[protocol.DocumentURI]*treeEntry

	inflightMu sync.Mutex
	inflight   map[jsonrpc2.ID]context.CancelFunc
}

// treeEntry caches one parse per document version. The once gate lets
// concurrent requests for the same snapshot share a single parse; later
// arrivals suspend until it completes.
type treeEntry struct {
	version int32
	once    sync.Once
	tree    *syntax.Tree
}

// New builds a server instance.
func New(logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		store:    textdoc.NewStore(),
		parsers:  syntax.NewParserRegistry(),
		logger:   logger,
		trees:    make(map[protocol.DocumentURI]*treeEntry),
		inflight: make(map[jsonrpc2.ID]context.CancelFunc),
	}
}

// Handler returns the jsonrpc2 handler for an editor connection.
// Requests run asynchronously so cancel notifications can interleave.
func (s *Server) Handler() jsonrpc2.Handler {
	return jsonrpc2.AsyncHandler(jsonrpc2.HandlerWithError(s.handle))
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	switch req.Method {
	case "initialize":
		return s.initialize(req)
	case "initialized", "shutdown", "exit":
		return nil, nil
	case "textDocument/didOpen":
		return nil, s.didOpen(req)
	case "textDocument/didChange":
		return nil, s.didChange(req)
	case "textDocument/didClose":
		return nil, s.didClose(req)
	case "textDocument/documentSymbol":
		return s.documentSymbol(ctx, req)
	case "$/cancelRequest":
		s.cancelRequest(req)
		return nil, nil
	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "method not handled: " + req.Method}
	}
}

func (s *Server) initialize(req *jsonrpc2.Request) (interface{}, error) {
	var params protocol.InitializeParams
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &params); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
		}
	}
	if params.ClientInfo != nil {
		s.logger.Printf("initialize from %s", params.ClientInfo.Name)
	}
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindFull,
			},
			DocumentSymbolProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{Name: "swiftline", Version: Version},
	}, nil
}

func (s *Server) didOpen(req *jsonrpc2.Request) error {
	var params protocol.DidOpenTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}
	td := params.TextDocument
	s.store.Open(td.URI, string(td.LanguageID), td.Version, td.Text)
	return nil
}

func (s *Server) didChange(req *jsonrpc2.Request) error {
	var params protocol.DidChangeTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last change carries the complete new text.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	uri := params.TextDocument.URI
	if _, err := s.store.Change(uri, params.TextDocument.Version, text); err != nil {
		s.logger.Printf("didChange: %v", err)
		return nil
	}
	s.invalidate(uri)
	return nil
}

func (s *Server) didClose(req *jsonrpc2.Request) error {
	var params protocol.DidCloseTextDocumentParams
	if err := unmarshalParams(req, &params); err != nil {
		return err
	}
	s.store.Close(params.TextDocument.URI)
	s.invalidate(params.TextDocument.URI)
	return nil
}

// documentSymbol serves textDocument/documentSymbol. The result is the
// hierarchical variant of the protocol's symbol union, never the flat
// SymbolInformation list.
func (s *Server) documentSymbol(ctx context.Context, req *jsonrpc2.Request) (interface{}, error) {
	var params protocol.DocumentSymbolParams
	if err := unmarshalParams(req, &params); err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.track(req.ID, cancel)
	defer s.untrack(req.ID)

	doc, err := s.store.Get(params.TextDocument.URI)
	if err != nil {
		return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
	}
	parser, ok := s.parsers.GetParser(doc.LanguageID)
	if !ok {
		return []protocol.DocumentSymbol{}, nil
	}
	tree := s.syntaxTree(doc, parser)
	if err := ctx.Err(); err != nil {
		return nil, &jsonrpc2.Error{Code: codeRequestCancelled, Message: "request cancelled"}
	}
	symbols := outline.Find(tree.Roots(), doc.LineTable())
	if symbols == nil {
		symbols = []protocol.DocumentSymbol{}
	}
	return symbols, nil
}

// syntaxTree returns the parsed tree for the snapshot, parsing at most
// once per document version.
func (s *Server) syntaxTree(doc *textdoc.Document, parser syntax.Parser) *syntax.Tree {
	s.treeMu.Lock()
	entry, ok := s.trees[doc.URI]
	if !ok || entry.version != doc.Version {
		entry = &treeEntry{version: doc.Version}
		s.trees[doc.URI] = entry
	}
	s.treeMu.Unlock()
	entry.once.Do(func() {
		tree, err := parser.Parse(doc.Text, string(doc.URI))
		if err != nil {
			s.logger.Printf("parse %s: %v", doc.URI, err)
			tree = &syntax.Tree{}
		}
		entry.tree = tree
	})
	return entry.tree
}

func (s *Server) invalidate(uri protocol.DocumentURI) {
	s.treeMu.Lock()
	delete(s.trees, uri)
	s.treeMu.Unlock()
}

func (s *Server) track(id jsonrpc2.ID, cancel context.CancelFunc) {
	s.inflightMu.Lock()
	s.inflight[id] = cancel
	s.inflightMu.Unlock()
}

func (s *Server) untrack(id jsonrpc2.ID) {
	s.inflightMu.Lock()
	delete(s.inflight, id)
	s.inflightMu.Unlock()
}

func (s *Server) cancelRequest(req *jsonrpc2.Request) {
	var params struct {
		ID jsonrpc2.ID `json:"id"`
	}
	if err := unmarshalParams(req, &params); err != nil {
		return
	}
	s.inflightMu.Lock()
	cancel, ok := s.inflight[params.ID]
	s.inflightMu.Unlock()
	if ok {
		cancel()
	}
}

func unmarshalParams(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return nil
	}
	return json.Unmarshal(*req.Params, v)
}
