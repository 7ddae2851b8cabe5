package boxfit

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	imgengine "github.com/ironsheep/image-boxfit/internal/imaging"
)

// WriteOptions controls how Write stores a raster. Zero fields take the
// defaults from DefaultWriteOptions.
//
// Written files never carry EXIF or other metadata: the encoders only
// emit pixel data.
type WriteOptions struct {
	// Format is the output format: "jpeg" (default), "png", "gif",
	// "tiff", "bmp" or "webp".
	Format string `json:"format"`

	// Quality applies to JPEG and WebP output, 1-100. Default 90.
	Quality int `json:"quality"`

	// DirMode is the permission for parent directories Write creates.
	// Default 0777.
	DirMode fs.FileMode `json:"directoryMode"`

	// FileMode is the permission set on the written file. Default 0777.
	FileMode fs.FileMode `json:"fileMode"`
}

// DefaultWriteOptions returns WriteOptions with every default filled in.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Format:   "jpeg",
		Quality:  90,
		DirMode:  0o777,
		FileMode: 0o777,
	}
}

func (o WriteOptions) resolve() (WriteOptions, error) {
	def := DefaultWriteOptions()
	if o.Format == "" {
		o.Format = def.Format
	}
	format, err := imgengine.NormalizeFormat(o.Format)
	if err != nil {
		return WriteOptions{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	o.Format = format

	if o.Quality == 0 {
		o.Quality = def.Quality
	}
	if o.Quality < 1 || o.Quality > 100 {
		return WriteOptions{}, fmt.Errorf("%w: quality %d not in [1, 100]", ErrInvalidArgument, o.Quality)
	}
	if o.DirMode == 0 {
		o.DirMode = def.DirMode
	}
	if o.FileMode == 0 {
		o.FileMode = def.FileMode
	}
	if o.DirMode&^fs.ModePerm != 0 || o.FileMode&^fs.ModePerm != 0 {
		return WriteOptions{}, fmt.Errorf("%w: modes must be permission bits only", ErrInvalidArgument)
	}
	return o, nil
}

// Write encodes r to destPath. Missing parent directories are created
// with opts.DirMode and the file is replaced atomically, then given
// opts.FileMode. r is not modified.
func Write(r *Raster, destPath string, opts WriteOptions) error {
	if destPath == "" {
		return fmt.Errorf("%w: empty destination path", ErrInvalidArgument)
	}
	if r.empty() {
		return fmt.Errorf("%w: raster is empty", ErrInvalidArgument)
	}
	o, err := opts.resolve()
	if err != nil {
		return err
	}
	return write(r, destPath, o)
}

func write(r *Raster, destPath string, o WriteOptions) error {
	var buf bytes.Buffer
	if err := imgengine.Encode(&buf, r.Image, o.Format, o.Quality); err != nil {
		return fmt.Errorf("%w: %w", ErrProcessing, err)
	}

	if err := mkdirAllMode(filepath.Dir(destPath), o.DirMode); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := atomicWrite(destPath, buf.Bytes(), o.FileMode); err != nil {
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	return nil
}

// StripHeaders rewrites the image at path in the format it is stored in,
// dropping EXIF and any other metadata. The file name plays no part: a
// PNG named photo.jpg stays a PNG. The file keeps its permissions.
func StripHeaders(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidArgument)
	}

	d, err := imgengine.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	o, err := WriteOptions{Format: d.Format, FileMode: info.Mode().Perm()}.resolve()
	if err != nil {
		return err
	}
	return write(&Raster{Image: d.Image}, path, o)
}

// ResizeMultiWrite fits src into each box and writes each result to the
// box's Path. Every box must have a Path. Results are written as they are
// produced, so at most Options.Concurrency results are held in memory.
func (r *Resizer) ResizeMultiWrite(src *Raster, boxes []BoxSpec, opts Options, wopts WriteOptions) error {
	o, err := wopts.resolve()
	if err != nil {
		return err
	}
	for _, b := range boxes {
		if b.Path == "" {
			return fmt.Errorf("%w: box %q has no path", ErrInvalidArgument, b.Key)
		}
	}

	return r.run(src, boxes, opts, func(b BoxSpec, out *Raster) error {
		if err := write(out, b.Path, o); err != nil {
			return err
		}
		r.logger.Debug("wrote box", slog.String("key", b.Key), slog.String("path", b.Path))
		return nil
	})
}

// ResizeMultiWrite calls Resizer.ResizeMultiWrite on the default Resizer.
func ResizeMultiWrite(src *Raster, boxes []BoxSpec, opts Options, wopts WriteOptions) error {
	return defaultResizer().ResizeMultiWrite(src, boxes, opts, wopts)
}

// mkdirAllMode creates dir and any missing parents with exactly mode,
// regardless of the process umask.
func mkdirAllMode(dir string, mode fs.FileMode) error {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	parent := filepath.Dir(dir)
	if parent != dir {
		if err := mkdirAllMode(parent, mode); err != nil {
			return err
		}
	}
	if err := os.Mkdir(dir, mode); err != nil && !errors.Is(err, fs.ErrExist) {
		return err
	}
	return os.Chmod(dir, mode)
}

// atomicWrite writes data to path through a temp file in the same
// directory.
func atomicWrite(path string, data []byte, mode fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	// ensure cleanup of tmp on error
	defer func() {
		tmp.Close()
		os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp to final: %w", err)
	}
	return nil
}
