// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package jsontext implements a streaming, forward-only JSON token writer.

A Writer appends tokens (container starts and ends, property names,
primitive values) into a BufferSink, validating well-formed JSON
structure as it goes and escaping string payloads so the output is safe
to embed in HTML, XML, or JavaScript string contexts without further
processing.

Each public method corresponds to exactly one JSON token and either
succeeds completely or leaves the writer's committed output unchanged.
There is no tree or DOM representation and no parsing: this package only
writes.

	w := jsontext.NewWriter(sink.NewGrowableSink(nil))
	w.StartObject()
	w.PropertyString("name", "gopher")
	w.PropertyInt("age", 12)
	w.EndObject()
*/
package jsontext
