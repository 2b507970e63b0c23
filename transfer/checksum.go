package transfer

import (
	"crypto/md5"
	"encoding/hex"
	"hash"
	"io"
)

// FileChecksum returns the hex encoded MD5 digest of a local file. The file
// is streamed through the digest, it is never loaded into memory as a whole.
func FileChecksum(fsys LocalFS, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// hashingWriter computes the digest of everything written through it.
type hashingWriter struct {
	io.Writer
	hash hash.Hash
}

func newHashingWriter(w io.Writer) *hashingWriter {
	h := md5.New()
	return &hashingWriter{Writer: io.MultiWriter(w, h), hash: h}
}

// Sum returns the hex encoded digest of the bytes written so far.
func (w *hashingWriter) Sum() string {
	return hex.EncodeToString(w.hash.Sum(nil))
}
