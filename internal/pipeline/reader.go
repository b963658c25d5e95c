package pipeline

import (
	"context"

	"github.com/viant/afs"
)

// FileReader loads the raw bytes of one file.
type FileReader interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
}

// AFSReader reads files through an afs.Service, so plain paths and any
// storage URL afs understands can be analyzed the same way.
type AFSReader struct {
	fs afs.Service
}

// NewAFSReader returns a reader backed by afs.New().
func NewAFSReader() *AFSReader {
	return &AFSReader{fs: afs.New()}
}

// ReadFile implements FileReader.
func (r *AFSReader) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return r.fs.DownloadWithURL(ctx, path)
}
