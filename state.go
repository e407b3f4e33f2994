// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsontext

// kind identifies the syntactic category of a token for the purposes of
// the structural state machine. It intentionally does not distinguish
// among string/number/bool/null values: the state machine only cares
// whether a token is "a value", not which kind of value it is.
type kind uint8

const (
	kindStartObject kind = iota
	kindStartArray
	kindEndObject
	kindEndArray
	kindPropertyName
	kindValue
)

// prevToken records the previous_token field of the Data Model (§3): the
// last token successfully written, or tokenNone before anything has been
// written. Unlike kind, this also needs a "nothing written yet" state.
type prevToken uint8

const (
	tokenNone prevToken = iota
	tokenStartObject
	tokenStartArray
	tokenEndObject
	tokenEndArray
	tokenPropertyName
	tokenValue
)

func (p prevToken) isValueLike() bool {
	return p == tokenValue || p == tokenEndObject || p == tokenEndArray
}

// depthWord packs three pieces of writer state into a single integer, per
// §3 of the Data Model: the low 30 bits hold the current nesting depth,
// bit 30 records whether the innermost open container is an object
// (otherwise it is an array, meaningless at depth 0), and bit 31 — unused
// here since separator emission is driven by prevToken instead, which
// already distinguishes "just opened" from "just wrote a value" without
// needing a redundant flag bit. The field is kept as a single packed word
// anyway because the specification calls this out explicitly as the
// intended representation, not merely an implementation detail of the
// original source.
type depthWord uint32

const (
	depthMask     depthWord = 1<<30 - 1
	innerKindBit  depthWord = 1 << 30
	maxPackedDepth          = int(depthMask)
)

func (d depthWord) depth() int    { return int(d & depthMask) }
func (d depthWord) isObject() bool { return d&innerKindBit != 0 }

func packDepth(depth int, isObject bool) depthWord {
	d := depthWord(depth) & depthMask
	if isObject {
		d |= innerKindBit
	}
	return d
}

// state is the structural state machine (C3): it tracks the current
// nesting depth, the container kind at every level via a bit-packed
// current level plus a bitmap stack for outer levels, and the previous
// token, and it decides whether a given next token is grammatically
// valid without ever writing a byte.
type state struct {
	word         depthWord // current depth + innermost container kind
	bitStack     []uint64  // bit i = kind (1 object, 0 array) of level i+1
	prev         prevToken
	maxDepth     int
	allowMultiple bool
}

func (s *state) init(maxDepth int, allowMultiple bool) {
	s.word = 0
	s.bitStack = s.bitStack[:0]
	s.prev = tokenNone
	s.maxDepth = maxDepth
	s.allowMultiple = allowMultiple
}

func (s *state) Depth() int { return s.word.depth() }

func (s *state) bitAt(level int) bool {
	word, bit := level/64, uint(level%64)
	if word >= len(s.bitStack) {
		return false
	}
	return s.bitStack[word]&(1<<bit) != 0
}

func (s *state) setBitAt(level int, v bool) {
	word, bit := level/64, uint(level%64)
	for word >= len(s.bitStack) {
		s.bitStack = append(s.bitStack, 0)
	}
	if v {
		s.bitStack[word] |= 1 << bit
	} else {
		s.bitStack[word] &^= 1 << bit
	}
}

// validate reports whether writing a token of the given kind is legal
// from the current state, per the transition table in §4.3, without
// mutating any state.
func (s *state) validate(k kind) error {
	depth := s.word.depth()
	switch {
	case depth == 0:
		if s.prev == tokenNone || s.allowMultiple {
			switch k {
			case kindStartObject, kindStartArray, kindValue:
				return s.checkDepthLimit(k)
			}
		}
		return errInvalidOperation
	case s.word.isObject():
		switch s.prev {
		case tokenPropertyName:
			switch k {
			case kindStartObject, kindStartArray, kindValue:
				return s.checkDepthLimit(k)
			}
		default: // after StartObject, or after a value within this object
			switch k {
			case kindPropertyName, kindEndObject:
				return nil
			}
		}
		return errInvalidOperation
	default: // innermost container is an array
		switch k {
		case kindStartObject, kindStartArray, kindValue, kindEndArray:
			return s.checkDepthLimit(k)
		}
		return errInvalidOperation
	}
}

// checkDepthLimit reports DepthLimitExceeded before any bytes of a
// container-opening token are emitted, per §4.3: depth is validated
// ahead of reservation, not discovered only once advance is called.
func (s *state) checkDepthLimit(k kind) error {
	if k != kindStartObject && k != kindStartArray {
		return nil
	}
	depth := s.word.depth()
	if depth >= s.maxDepth || depth >= maxPackedDepth {
		return errDepthLimitExceeded
	}
	return nil
}

// advance mutates the state to reflect a token of the given kind having
// just been written successfully. The caller must have already confirmed
// validate(k) == nil.
func (s *state) advance(k kind) error {
	switch k {
	case kindStartObject, kindStartArray:
		depth := s.word.depth()
		if depth > 0 {
			s.setBitAt(depth-1, s.word.isObject())
		}
		s.word = packDepth(depth+1, k == kindStartObject)
		if k == kindStartObject {
			s.prev = tokenStartObject
		} else {
			s.prev = tokenStartArray
		}
	case kindEndObject, kindEndArray:
		depth := s.word.depth()
		newDepth := depth - 1
		var isObj bool
		if newDepth > 0 {
			isObj = s.bitAt(newDepth - 1)
		}
		s.word = packDepth(newDepth, isObj)
		if k == kindEndObject {
			s.prev = tokenEndObject
		} else {
			s.prev = tokenEndArray
		}
	case kindPropertyName:
		s.prev = tokenPropertyName
	case kindValue:
		s.prev = tokenValue
	}
	return nil
}

// needsSeparator reports whether a comma must be emitted before the next
// token of the given kind, per §4.3's separator/indent emission rules.
func (s *state) needsSeparator(k kind) bool {
	if s.word.depth() == 0 {
		return false // no separators between top-level values
	}
	switch s.prev {
	case tokenStartObject, tokenStartArray, tokenPropertyName:
		return false
	default:
		// A value, EndObject, or EndArray was just written: a sibling
		// follows, unless this is the very next thing closing the
		// container (handled by the caller never requesting a
		// separator before End* — see needsColon for object values).
		return k != kindEndObject && k != kindEndArray
	}
}

// needsColon reports whether a colon must be emitted before the next
// token, which is true exactly when the previous token was a property
// name.
func (s *state) needsColon() bool {
	return s.prev == tokenPropertyName
}

// isTerminal reports whether the writer is at a valid stopping point: a
// single complete top-level value has been written (or, in multi-value
// mode, any number of them), and depth is back to zero.
func (s *state) isTerminal() bool {
	return s.word.depth() == 0 && s.prev != tokenNone
}
