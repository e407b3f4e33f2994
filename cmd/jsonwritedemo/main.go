// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command jsonwritedemo writes a fixed demonstration document to stdout
// using the jsontext Writer, to exercise the writer against a real
// io.Writer-backed sink outside of the test suite.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/streamjson/streamjson"
	"github.com/streamjson/streamjson/internal/sink"
)

func main() {
	indent := flag.Bool("indent", false, "emit indented JSON instead of compact")
	flag.Parse()

	var opts []jsontext.Option
	if *indent {
		opts = append(opts, jsontext.WithIndent())
	}

	s := sink.NewWriterSink(os.Stdout, nil)
	w := jsontext.NewWriter(s, opts...)

	if err := writeDemo(w); err != nil {
		fmt.Fprintln(os.Stderr, "jsonwritedemo:", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "jsonwritedemo:", err)
		os.Exit(1)
	}
	fmt.Println()
}

func writeDemo(w *jsontext.Writer) error {
	if err := w.StartObject(); err != nil {
		return err
	}
	if err := w.PropertyString("name", "gopher"); err != nil {
		return err
	}
	if err := w.PropertyInt("age", 12); err != nil {
		return err
	}
	if err := w.PropertyGUID("id", uuid.New()); err != nil {
		return err
	}
	if err := w.PropertyDateTime("created", time.Unix(0, 0).UTC()); err != nil {
		return err
	}
	if err := w.PropertyName("tags"); err != nil {
		return err
	}
	if err := w.StartArray(); err != nil {
		return err
	}
	for _, tag := range []string{"mascot", "blue", "♥"} {
		if err := w.String(tag); err != nil {
			return err
		}
	}
	if err := w.EndArray(); err != nil {
		return err
	}
	if err := w.PropertyBool("active", true); err != nil {
		return err
	}
	if err := w.PropertyNull("deleted_at"); err != nil {
		return err
	}
	return w.EndObject()
}
