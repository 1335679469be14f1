package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/seuros/gopher-sass/src/buildinfo"
	"github.com/seuros/gopher-sass/src/parser"
	"github.com/seuros/gopher-sass/src/scss"
	"github.com/seuros/gopher-sass/src/split"
)

// Server is a minimal stdio language server reporting partition errors and
// the size of each half of a stylesheet.
type Server struct {
	parser   *parser.Parser
	importer split.Importer
	log      split.Logger

	mu   sync.Mutex
	docs map[string]string
	out  io.Writer
}

type Message struct {
	JsonRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   *ServerInfo        `json:"serverInfo,omitempty"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ServerCapabilities struct {
	TextDocumentSync   int                `json:"textDocumentSync"`
	HoverProvider      bool               `json:"hoverProvider"`
	CompletionProvider *CompletionOptions `json:"completionProvider"`
}

type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters"`
}

type TextDocumentItem struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

type ContentChange struct {
	Text string `json:"text"`
}

type DocumentParams struct {
	TextDocument   TextDocumentItem `json:"textDocument"`
	ContentChanges []ContentChange  `json:"contentChanges,omitempty"`
}

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

var errExit = errors.New("exit requested")

var directives = []string{"@import", "@mixin", "@include", "@extend", "@media", "@supports", "@font-face", "@charset"}

// NewServer creates a server writing to out. imp resolves @import and may
// be nil, in which case imports are reported as errors.
func NewServer(out io.Writer, imp split.Importer, logger split.Logger) (*Server, error) {
	p, err := parser.New()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = &split.NoOpLogger{}
	}
	return &Server{
		parser:   p,
		importer: imp,
		log:      logger,
		docs:     make(map[string]string),
		out:      out,
	}, nil
}

// Serve reads framed JSON-RPC messages from in until EOF or an exit
// notification.
func (s *Server) Serve(in io.Reader) error {
	s.log.Info("starting stylesheet language server", "version", buildinfo.UserAgent())
	r := bufio.NewReader(in)
	for {
		content, err := readMessage(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		var msg Message
		if err := json.Unmarshal(content, &msg); err != nil {
			s.log.Warn("dropping malformed message", "error", err)
			continue
		}

		responses, err := s.handleMessage(&msg)
		for _, resp := range responses {
			s.send(resp)
		}
		if errors.Is(err, errExit) {
			return nil
		}
	}
}

// readMessage reads one Content-Length framed payload.
func readMessage(r *bufio.Reader) ([]byte, error) {
	length := -1
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			if err == io.EOF && length < 0 && strings.TrimSpace(line) == "" {
				return nil, io.EOF
			}
			return nil, err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			if length < 0 {
				continue
			}
			break
		}
		if v, ok := strings.CutPrefix(line, "Content-Length:"); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("invalid content length %q: %w", v, err)
			}
			length = n
		}
	}
	content := make([]byte, length)
	if _, err := io.ReadFull(r, content); err != nil {
		return nil, err
	}
	return content, nil
}

func (s *Server) handleMessage(msg *Message) ([]*Message, error) {
	s.log.Debug("handling message", "method", msg.Method)

	switch msg.Method {
	case "initialize":
		return reply(msg, InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync: 1,
				HoverProvider:    true,
				CompletionProvider: &CompletionOptions{
					TriggerCharacters: []string{"@"},
				},
			},
			ServerInfo: &ServerInfo{Name: "gopher-sass", Version: buildinfo.Version},
		}), nil
	case "initialized":
		return nil, nil
	case "shutdown":
		return reply(msg, nil), nil
	case "exit":
		return nil, errExit
	case "textDocument/didOpen", "textDocument/didChange":
		var params DocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return nil, nil
		}
		text := params.TextDocument.Text
		if n := len(params.ContentChanges); n > 0 {
			text = params.ContentChanges[n-1].Text
		}
		s.mu.Lock()
		s.docs[params.TextDocument.URI] = text
		s.mu.Unlock()
		return []*Message{s.diagnostics(params.TextDocument.URI, text)}, nil
	case "textDocument/didClose":
		var params DocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return nil, nil
		}
		s.mu.Lock()
		delete(s.docs, params.TextDocument.URI)
		s.mu.Unlock()
		return []*Message{notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []Diagnostic{},
		})}, nil
	case "textDocument/hover":
		var params DocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return nil, nil
		}
		s.mu.Lock()
		text, ok := s.docs[params.TextDocument.URI]
		s.mu.Unlock()
		if !ok {
			return reply(msg, nil), nil
		}
		return reply(msg, map[string]interface{}{
			"contents": map[string]interface{}{
				"kind":  "markdown",
				"value": s.summary(params.TextDocument.URI, text),
			},
		}), nil
	case "textDocument/completion":
		items := make([]map[string]interface{}, len(directives))
		for i, d := range directives {
			items[i] = map[string]interface{}{
				"label":      d,
				"kind":       14, // Keyword
				"insertText": strings.TrimPrefix(d, "@"),
			}
		}
		return reply(msg, map[string]interface{}{
			"isIncomplete": false,
			"items":        items,
		}), nil
	}

	if msg.ID != nil {
		return []*Message{{
			JsonRPC: "2.0",
			ID:      msg.ID,
			Error:   &Error{Code: -32601, Message: "method not found: " + msg.Method},
		}}, nil
	}
	return nil, nil
}

func reply(msg *Message, result interface{}) []*Message {
	return []*Message{{JsonRPC: "2.0", ID: msg.ID, Result: result}}
}

func notify(method string, params interface{}) *Message {
	data, _ := json.Marshal(params)
	return &Message{JsonRPC: "2.0", Method: method, Params: data}
}

// analyze parses text and runs both partitions.
func (s *Server) analyze(uri, text string) (static, dynamic *scss.Document, err error) {
	file := pathOf(uri)
	doc, err := s.parser.Parse(file, text)
	if err != nil {
		return nil, nil, err
	}
	opts := []split.Option{split.WithImporter(s.importer), split.WithLogger(s.log)}
	static, err = split.Partition(doc, split.Static, opts...)
	if err != nil {
		return nil, nil, err
	}
	dynamic, err = split.Partition(doc, split.Dynamic, opts...)
	if err != nil {
		return nil, nil, err
	}
	return static, dynamic, nil
}

func (s *Server) diagnostics(uri, text string) *Message {
	diags := []Diagnostic{}
	if _, _, err := s.analyze(uri, text); err != nil {
		line := errorLine(err, pathOf(uri))
		diags = append(diags, Diagnostic{
			Range:    Range{Start: Position{Line: line}, End: Position{Line: line + 1}},
			Severity: 1,
			Source:   "gopher-sass",
			Message:  message(err),
		})
	}
	return notify("textDocument/publishDiagnostics", PublishDiagnosticsParams{URI: uri, Diagnostics: diags})
}

func (s *Server) summary(uri, text string) string {
	static, dynamic, err := s.analyze(uri, text)
	if err != nil {
		return "**Stylesheet split failed**\n\n" + message(err)
	}
	return fmt.Sprintf("**Stylesheet split**\n\n- static: %d top-level nodes\n- dynamic: %d top-level nodes",
		len(static.Children), len(dynamic.Children))
}

// errorLine returns the zero-based line in file to attach err to. Errors
// raised inside an imported file point at the outermost import.
func errorLine(err error, file string) int {
	var pos scss.Position
	var located interface{ Pos() scss.Position }
	if errors.As(err, &located) {
		pos = located.Pos()
	}
	var traced split.Error
	if pos.File != file && errors.As(err, &traced) {
		if frames := traced.Trace(); len(frames) > 0 {
			pos = frames[len(frames)-1].Position
		}
	}
	if pos.Line < 1 {
		return 0
	}
	return pos.Line - 1
}

func message(err error) string {
	var se split.Error
	if errors.As(err, &se) {
		return se.Message()
	}
	var syntaxErr *scss.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Message
	}
	return err.Error()
}

func pathOf(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return u.Path
}

func (s *Server) send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		s.log.Error("failed to encode message", "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n%s", len(data), data)
}
