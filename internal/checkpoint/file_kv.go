package checkpoint

import (
	"os"
	"path/filepath"
	"strings"

	"pinstats/internal/providers"
)

// FileKV stores each key as a zstd-compressed file, written atomically
// via tmp-file-and-rename.
type FileKV struct {
	dir        string
	compressor CompressorInterface
	logger     providers.Logger
}

func NewFileKV(dir string, compressor CompressorInterface, logger providers.Logger) *FileKV {
	return &FileKV{
		dir:        dir,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileKV) path(key string) string {
	safe := strings.NewReplacer("/", "_", ":", "_", "..", "_").Replace(key)
	return filepath.Join(f.dir, safe+".zst")
}

func (f *FileKV) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return nil, false, err
	}
	return decompressed, true, nil
}

func (f *FileKV) Put(key string, value []byte) error {
	compressed, err := f.compressor.Compress(value)
	if err != nil {
		return err
	}

	path := f.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(compressed); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, path)
}

func (f *FileKV) Delete(key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
