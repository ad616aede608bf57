package domain

import (
	"io"
	"time"
)

// DocumentRecord is a reference document the backend has confirmed it stores.
type DocumentRecord struct {
	// Name is the client-supplied filename shown to the user.
	Name string `json:"name"`

	// ServerPath is the opaque identifier assigned by the backend on upload.
	// All later references to the document use it.
	ServerPath string `json:"serverPath"`

	// UploadedAt is when the upload was confirmed, in UTC.
	UploadedAt time.Time `json:"uploadedAt"`
}

// DocumentSet is the ordered sequence of documents attached to chat turns.
// Insertion order is display order.
type DocumentSet []DocumentRecord

// Paths returns the server paths in display order.
// The result is never nil so it encodes as an empty JSON array.
func (s DocumentSet) Paths() []string {
	paths := make([]string, 0, len(s))
	for i := range s {
		paths = append(paths, s[i].ServerPath)
	}
	return paths
}

// IndexOf returns the position of the first record with the given server
// path, or -1 if none exists.
func (s DocumentSet) IndexOf(serverPath string) int {
	for i := range s {
		if s[i].ServerPath == serverPath {
			return i
		}
	}
	return -1
}

// InRange reports whether index addresses an existing record.
func (s DocumentSet) InRange(index int) bool {
	return index >= 0 && index < len(s)
}

// Clone returns a copy that shares no backing array with s.
func (s DocumentSet) Clone() DocumentSet {
	out := make(DocumentSet, len(s))
	copy(out, s)
	return out
}

// Without returns a copy of s with the record at index removed.
// An out-of-range index returns an unchanged copy.
func (s DocumentSet) Without(index int) DocumentSet {
	if !s.InRange(index) {
		return s.Clone()
	}
	out := make(DocumentSet, 0, len(s)-1)
	out = append(out, s[:index]...)
	return append(out, s[index+1:]...)
}

// UploadFile is a file payload selected for upload.
type UploadFile struct {
	// Name is the display filename sent as the multipart filename.
	Name string

	// Content is read once, to completion, by the backend adapter.
	Content io.Reader
}
