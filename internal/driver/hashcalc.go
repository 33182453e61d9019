package driver

import (
	"crypto/sha256"
	"fmt"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

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

// modeDigest hashes the run options that change a static report but are not
// part of the config file.
func modeDigest(opts *Options) Digest {
	return sha256.Sum256(fmt.Appendf(nil, "schema=%d;analyses=%d;scale=%g;verbose=%t;max=%d",
		diskCacheSchemaVersion, opts.Analyses, opts.Fraction, opts.Verbose, opts.MaxDiagnostics))
}

// CacheKey is H(content || config fingerprint || run mode).
func CacheKey(content [32]byte, opts *Options) Digest {
	return combineDigest(content, opts.Fingerprint, modeDigest(opts))
}
