package driver

import "testing"

func digest(b byte) Digest {
	var d Digest
	for i := range d {
		d[i] = b
	}
	return d
}

func TestCacheKeyDependsOnEveryInput(t *testing.T) {
	base := Options{Analyses: AnalyzeAll, Fraction: 1, Fingerprint: digest('F')}
	key := CacheKey(digest('A'), &base)
	if key != CacheKey(digest('A'), &base) {
		t.Fatal("key is not deterministic")
	}

	variants := map[string]func(o *Options){
		"fingerprint": func(o *Options) { o.Fingerprint = digest('G') },
		"scale":       func(o *Options) { o.Fraction = 0.5 },
		"analyses":    func(o *Options) { o.Analyses = AnalyzeOverlap },
		"verbose":     func(o *Options) { o.Verbose = true },
	}
	for name, mutate := range variants {
		o := base
		mutate(&o)
		if CacheKey(digest('A'), &o) == key {
			t.Errorf("%s does not change the key", name)
		}
	}
	if CacheKey(digest('B'), &base) == key {
		t.Error("content does not change the key")
	}
}

func TestCombineDigestOrderMatters(t *testing.T) {
	a, b, c := digest(1), digest(2), digest(3)
	if combineDigest(a, b, c) == combineDigest(a, c, b) {
		t.Fatal("combineDigest must be order sensitive")
	}
}
