package console

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure Discard implements the interface.
var _ driven.Presenter = Discard{}

// Discard drops every notification. Callers that only need return values,
// such as the MCP server whose stdout carries the protocol, use it.
type Discard struct{}

func (Discard) RenderMessage(domain.ChatMessage)      {}
func (Discard) UpdateMessage(domain.ChatMessage)      {}
func (Discard) RenderDocumentList(domain.DocumentSet) {}
func (Discard) SetConnected(bool)                     {}
func (Discard) SetUploadStatus(domain.UploadStatus)   {}
func (Discard) SetTyping(bool)                        {}
func (Discard) SetTheme(domain.Theme)                 {}
func (Discard) ClearInput()                           {}
