package domain

// UploadStatusKind classifies the transient upload status line.
type UploadStatusKind int

const (
	// UploadIdle means no status is shown.
	UploadIdle UploadStatusKind = iota
	// Uploading means a file payload is in flight.
	Uploading
	// UploadSucceeded means the backend confirmed the upload.
	UploadSucceeded
	// UploadFailed means the upload was rejected or never arrived.
	UploadFailed
)

// String returns the string representation of the kind.
func (k UploadStatusKind) String() string {
	switch k {
	case UploadIdle:
		return "idle"
	case Uploading:
		return "uploading"
	case UploadSucceeded:
		return "success"
	case UploadFailed:
		return "error"
	default:
		return "unknown"
	}
}

// UploadStatus is the status line scoped to a single file.
type UploadStatus struct {
	FileName string
	Text     string
	Kind     UploadStatusKind
}

// IdleStatus clears the status line.
var IdleStatus = UploadStatus{Kind: UploadIdle}
