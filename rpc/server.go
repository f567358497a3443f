// Package rpc exposes the command table to a host over JSON-RPC 2.0 with
// LSP-style framing.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mmuldo/scaler/command"
	"github.com/mmuldo/scaler/logger"
	"github.com/mmuldo/scaler/scale"
	"github.com/sourcegraph/jsonrpc2"
)

const (
	MethodCommands = "commands"
	MethodExecute  = "execute"
	MethodSuggest  = "suggest"
)

// CodeCommandFailed is returned when a command ran and failed. The error's
// data carries the partial Result.
const CodeCommandFailed int64 = -32000

type CommandInfo struct {
	Name    string          `json:"name"`
	Summary string          `json:"summary"`
	Params  []command.Param `json:"params"`
}

type ExecuteParams struct {
	Command string       `json:"command"`
	Args    command.Args `json:"args,omitempty"`
}

type SuggestParams struct {
	Command string `json:"command"`
	Param   string `json:"param"`
	Query   string `json:"query"`
}

type Result struct {
	Message   string        `json:"message"`
	Scales    []scale.Scale `json:"scales,omitempty"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Unchanged int           `json:"unchanged"`
	Bound     int           `json:"bound"`
	Changed   int           `json:"changed"`
	Failures  []string      `json:"failures,omitempty"`
}

func newResult(res command.Result) Result {
	out := Result{
		Message:   res.Message,
		Scales:    res.Scales,
		Created:   res.Report.Created,
		Updated:   res.Report.Updated,
		Unchanged: res.Report.Unchanged,
		Bound:     res.Report.Bound,
		Changed:   res.Changed,
	}
	for _, f := range res.Report.Failures {
		out.Failures = append(out.Failures, f.Error())
	}
	return out
}

// Server runs one command at a time against env.
type Server struct {
	env *command.Env
	mu  sync.Mutex
	log *slog.Logger
}

func NewServer(env *command.Env) *Server {
	return &Server{env: env, log: logger.ForComponent("rpc")}
}

// Serve answers requests on rwc until the peer disconnects or ctx is done.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))

	select {
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	case <-conn.DisconnectNotify():
		return nil
	}
}

func (s *Server) handle(ctx context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	s.log.Debug("request", "method", req.Method)

	switch req.Method {
	case MethodCommands:
		var out []CommandInfo
		for _, d := range command.Commands() {
			out = append(out, CommandInfo{Name: d.Name, Summary: d.Summary, Params: d.Params})
		}
		return out, nil

	case MethodExecute:
		var p ExecuteParams
		if e := decode(req, &p); e != nil {
			return nil, e
		}
		s.mu.Lock()
		defer s.mu.Unlock()

		res, e := command.Run(ctx, s.env, p.Command, p.Args)
		if e != nil {
			return nil, commandError(e, newResult(res))
		}
		return newResult(res), nil

	case MethodSuggest:
		var p SuggestParams
		if e := decode(req, &p); e != nil {
			return nil, e
		}
		s.mu.Lock()
		defer s.mu.Unlock()

		out, e := command.Suggest(ctx, s.env, p.Command, p.Param, p.Query)
		if e != nil {
			return nil, commandError(e, nil)
		}
		if out == nil {
			out = []string{}
		}
		return out, nil
	}

	return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeMethodNotFound, Message: "unknown method " + req.Method}
}

func decode(req *jsonrpc2.Request, v interface{}) error {
	if req.Params == nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: "missing params"}
	}
	if e := json.Unmarshal(*req.Params, v); e != nil {
		return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: e.Error()}
	}
	return nil
}

func commandError(e error, data interface{}) error {
	code := CodeCommandFailed
	if errors.Is(e, command.ErrInvalidParameter) {
		code = jsonrpc2.CodeInvalidParams
	}
	re := &jsonrpc2.Error{Code: code, Message: e.Error()}
	if data != nil {
		re.SetError(data)
	}
	return re
}

type stdio struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

// Stdio joins the process's stdin and stdout into one stream.
func Stdio() io.ReadWriteCloser {
	return &stdio{reader: os.Stdin, writer: os.Stdout}
}

func (s *stdio) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *stdio) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *stdio) Close() error {
	rerr := s.reader.Close()
	werr := s.writer.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}
