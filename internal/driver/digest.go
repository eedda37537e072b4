package driver

import (
	"crypto/sha256"
	"encoding/hex"

	"vipyrdocs/internal/lint"
	"vipyrdocs/internal/source"
)

// Digest is a SHA-256 value used as a cache key.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// combineDigest: H(content || part1 || part2 ...). parts уже в детерминированном порядке.
func combineDigest(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

var (
	testFileTag  = Digest(sha256.Sum256([]byte("test-file")))
	plainFileTag = Digest(sha256.Sum256([]byte("plain-file")))
)

// fileKey - ключ кэша файла. Имя файла влияет на результат только через
// признак тестового файла, поэтому переименование обычного модуля попадает в кэш.
func fileKey(f *source.File, settings Digest) Digest {
	tag := plainFileTag
	if lint.IsTestFile(f.Path) {
		tag = testFileTag
	}
	return combineDigest(Digest(f.Hash), settings, tag)
}
