// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sink

import (
	"math/bits"
	"sync"
)

// minPooledShift is the minimum size class, in bits, that is pooled.
// Smaller requests are rounded up to this size before consulting the pool.
const minPooledShift = 9 // 512 bytes

const numSizeClasses = bits.UintSize - minPooledShift

// BytePool is a size-classed pool of byte slices, grounded on the same
// segmented size-class strategy the teacher uses for its internal buffer
// pools: one sync.Pool per power-of-two size class, so that a request for
// n bytes only ever contends with other requests of similar size.
//
// The zero value is ready to use. A BytePool is safe for concurrent use.
type BytePool struct {
	classes [numSizeClasses]sync.Pool
	once    sync.Once
}

func (p *BytePool) init() {
	p.once.Do(func() {
		for i := range p.classes {
			shift := minPooledShift + i
			p.classes[i].New = func() any {
				b := make([]byte, 0, 1<<shift)
				return &b
			}
		}
	})
}

func (p *BytePool) classFor(n int) int {
	if n < 1<<minPooledShift {
		n = 1 << minPooledShift
	}
	shift := bits.Len(uint(n - 1))
	return shift - minPooledShift
}

// Get returns a zero-length byte slice with capacity for at least n bytes.
func (p *BytePool) Get(n int) []byte {
	p.init()
	class := p.classFor(n)
	if class >= len(p.classes) {
		return make([]byte, 0, n)
	}
	b := p.classes[class].Get().(*[]byte)
	return (*b)[:0]
}

// Put returns b to the pool for later reuse. The caller must not retain
// b after calling Put. If scrub is true, the slice's full capacity is
// zeroed first — required whenever the buffer held caller-supplied
// string or property-name data, to avoid a pooled reuse exposing stale
// bytes to an unrelated caller.
func (p *BytePool) Put(b []byte, scrub bool) {
	p.init()
	if cap(b) < 1<<minPooledShift {
		return
	}
	if scrub {
		full := b[:cap(b)]
		for i := range full {
			full[i] = 0
		}
	}
	class := bits.Len(uint(cap(b))-1) - minPooledShift
	if class < 0 || class >= len(p.classes) {
		return
	}
	b = b[:0]
	p.classes[class].Put(&b)
}

// Default is the package-level pool used when a Writer is not configured
// with its own. Per the Design Notes in the specification this package is
// built from, a global shared pool should be replaceable by a per-writer
// instance injected at construction — Default exists only to give callers
// a zero-configuration option, not as hidden global mutable state that
// writers are forced to share.
var Default = &BytePool{}
