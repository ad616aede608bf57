package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Message string `json:"message" jsonschema:"the question to send to the document chat server"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Reply     string   `json:"reply"`
	Documents []string `json:"documents"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents one uploaded document.
type DocumentOutput struct {
	Position   int    `json:"position"`
	Name       string `json:"name"`
	ServerPath string `json:"server_path"`
	UploadedAt string `json:"uploaded_at"`
}

// UploadDocumentInput is the input schema for the upload_document tool.
type UploadDocumentInput struct {
	Path string `json:"path" jsonschema:"absolute path of a local file to upload"`
}

// UploadDocumentOutput is the output schema for the upload_document tool.
type UploadDocumentOutput struct {
	Document DocumentOutput `json:"document"`
}

// RemoveDocumentInput is the input schema for the remove_document tool.
type RemoveDocumentInput struct {
	Position   int    `json:"position,omitempty" jsonschema:"1-based position from list_documents"`
	ServerPath string `json:"server_path,omitempty" jsonschema:"server path of the document; used when position is not set"`
}

// RemoveDocumentOutput is the output schema for the remove_document tool.
type RemoveDocumentOutput struct {
	Removed   string `json:"removed"`
	Remaining int    `json:"remaining"`
}

// CheckConnectionInput is the input schema for the check_connection tool.
type CheckConnectionInput struct{}

// CheckConnectionOutput is the output schema for the check_connection tool.
type CheckConnectionOutput struct {
	Connected bool   `json:"connected"`
	Server    string `json:"server,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask the document chat server a question about the uploaded documents",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the uploaded documents in upload order",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_document",
		Description: "Upload a local file so later questions can use it",
	}, s.handleUploadDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_document",
		Description: "Delete an uploaded document from the server and the list",
	}, s.handleRemoveDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_connection",
		Description: "Check whether the document chat server is reachable and reconnect if it is",
	}, s.handleCheckConnection)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, AskOutput{}, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}
	if err := s.ensureConnected(); err != nil {
		return nil, AskOutput{}, err
	}

	reply, err := s.ports.Session.SendToServer(ctx, message)
	if err != nil {
		return nil, AskOutput{}, err
	}
	if reply == "" {
		return nil, AskOutput{}, errors.New("the server returned no reply")
	}

	return nil, AskOutput{
		Reply:     reply,
		Documents: s.ports.Session.Documents().Paths(),
	}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs := s.ports.Session.Documents()

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(i, docs[i])
	}

	return nil, output, nil
}

// handleUploadDocument handles the upload_document tool invocation.
func (s *Server) handleUploadDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadDocumentInput,
) (*mcp.CallToolResult, UploadDocumentOutput, error) {
	if input.Path == "" {
		return nil, UploadDocumentOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}
	if err := s.ensureConnected(); err != nil {
		return nil, UploadDocumentOutput{}, err
	}

	f, err := os.Open(input.Path)
	if err != nil {
		return nil, UploadDocumentOutput{}, fmt.Errorf("opening %s: %w", input.Path, err)
	}
	defer f.Close()

	record, err := s.ports.Session.Upload(ctx, domain.UploadFile{
		Name:    filepath.Base(input.Path),
		Content: f,
	})
	if err != nil {
		return nil, UploadDocumentOutput{}, err
	}

	position := s.ports.Session.Documents().IndexOf(record.ServerPath)
	return nil, UploadDocumentOutput{Document: documentOutput(position, *record)}, nil
}

// handleRemoveDocument handles the remove_document tool invocation.
func (s *Server) handleRemoveDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveDocumentInput,
) (*mcp.CallToolResult, RemoveDocumentOutput, error) {
	session := s.ports.Session

	serverPath := input.ServerPath
	if input.Position != 0 {
		docs := session.Documents()
		if !docs.InRange(input.Position - 1) {
			return nil, RemoveDocumentOutput{}, fmt.Errorf("%w: no document at position %d",
				domain.ErrDocumentNotFound, input.Position)
		}
		serverPath = docs[input.Position-1].ServerPath
	}
	if serverPath == "" {
		return nil, RemoveDocumentOutput{}, fmt.Errorf("%w: position or server_path is required",
			domain.ErrInvalidInput)
	}

	if err := s.ensureConnected(); err != nil {
		return nil, RemoveDocumentOutput{}, err
	}
	if err := session.RemoveByPath(ctx, serverPath); err != nil {
		return nil, RemoveDocumentOutput{}, err
	}

	return nil, RemoveDocumentOutput{
		Removed:   serverPath,
		Remaining: len(session.Documents()),
	}, nil
}

// handleCheckConnection handles the check_connection tool invocation.
func (s *Server) handleCheckConnection(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CheckConnectionInput,
) (*mcp.CallToolResult, CheckConnectionOutput, error) {
	state := s.ports.Session.Probe(ctx)
	return nil, CheckConnectionOutput{
		Connected: state == domain.Connected,
		Server:    s.ports.ServerURL,
	}, nil
}

// ensureConnected fails fast while the session is disconnected. Only
// check_connection probes, so a failed chat call keeps later calls
// short-circuited until the client reconnects explicitly.
func (s *Server) ensureConnected() error {
	if s.ports.Session.State() == domain.Connected {
		return nil
	}
	return ErrNotConnected
}

func documentOutput(index int, d domain.DocumentRecord) DocumentOutput {
	return DocumentOutput{
		Position:   index + 1,
		Name:       d.Name,
		ServerPath: d.ServerPath,
		UploadedAt: d.UploadedAt.UTC().Format(time.RFC3339),
	}
}
