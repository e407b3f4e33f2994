// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontext

import (
	"github.com/go-logr/logr"

	"github.com/streamjson/streamjson/internal/sink"
)

const (
	defaultMaxDepth     = 1000
	defaultIndentWidth  = 2
	minStackAllocLength = 256 // see options.go: scratch buffers at or below this size are not pooled
)

// Options configures a Writer. The zero value is not usable directly;
// construct one with NewWriter, which applies every With* func in order.
type Options struct {
	indented        bool
	indentWidth     int
	maxDepth        int
	skipValidation  bool
	allowMultiple   bool
	logger          logr.Logger
	pool            *sink.BytePool
	stackAllocLimit int
}

func defaultOptions() Options {
	return Options{
		indentWidth:     defaultIndentWidth,
		maxDepth:        defaultMaxDepth,
		logger:          logr.Discard(),
		pool:            sink.Default,
		stackAllocLimit: minStackAllocLength,
	}
}

// Option configures a Writer at construction time.
type Option func(*Options)

// WithIndent enables newline+indentation formatting between sibling
// tokens, with one space emitted after each property name's colon.
func WithIndent() Option {
	return func(o *Options) { o.indented = true }
}

// WithIndentWidth sets the number of spaces emitted per nesting level when
// WithIndent is also given. The default is 2.
func WithIndentWidth(width int) Option {
	return func(o *Options) { o.indentWidth = width }
}

// WithMaxDepth overrides the maximum container nesting depth. The default
// is 1000, matching the bit-packed depth field's intended working range.
func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.maxDepth = depth }
}

// WithSkipValidation bypasses the structural state machine entirely.
// Token order, container balance, and depth are no longer checked, and
// the writer trusts the caller to produce well-formed output; misuse can
// produce invalid JSON.
func WithSkipValidation() Option {
	return func(o *Options) { o.skipValidation = true }
}

// WithMultipleValues permits more than one top-level value to be written
// to a single Writer, one after another, instead of the default single
// top-level value.
func WithMultipleValues() Option {
	return func(o *Options) { o.allowMultiple = true }
}

// WithLogger attaches a logr.Logger used for diagnostic, non-error
// reporting only (buffer growth, scratch-pool rentals at V(1)). Writer
// errors are always returned to the caller, never logged.
func WithLogger(l logr.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithPool overrides the scratch/growth byte pool used by the writer's
// default sinks and escaping scratch buffers. Passing a fresh pool per
// Writer (rather than sharing one process-wide) makes the concurrency
// domain of pooled buffers explicit.
func WithPool(p *sink.BytePool) Option {
	return func(o *Options) {
		if p != nil {
			o.pool = p
		}
	}
}

// WithStackAllocLimit overrides the scratch-buffer size, in bytes, below
// which escaping uses a caller-frame-local array instead of renting from
// the pool. The default is 256.
func WithStackAllocLimit(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.stackAllocLimit = n
		}
	}
}
