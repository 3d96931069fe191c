package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// FrameDir writes each frame as an SVG file named frame-NNNN.svg.
type FrameDir struct {
	Dir     string
	Options Options
}

// NewFrameDir creates dir if needed.
func NewFrameDir(dir string, opts Options) (*FrameDir, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create frame dir: %w", err)
	}
	return &FrameDir{Dir: dir, Options: opts}, nil
}

// Path returns the file path for frame seq.
func (d *FrameDir) Path(seq int) string {
	return filepath.Join(d.Dir, fmt.Sprintf("frame-%04d.svg", seq))
}

// WriteFrame implements [FrameSink].
func (d *FrameDir) WriteFrame(f Frame) error {
	file, err := os.Create(d.Path(f.Seq))
	if err != nil {
		return fmt.Errorf("create frame: %w", err)
	}
	if err := WriteSVG(file, f, d.Options); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
