// Copyright 2026 The xmlstream Project Contributors
// SPDX-License-Identifier: Apache-2.0

// This binary provides an XML inspection tool that reads a document from a
// file or stdin and prints its event stream, a validated round trip, a
// pretty-printed rendition, or its canonical form.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"go.xmlstream.in/xmlstream"
)

// version is the current version of the xmlstream CLI tool.
const version = "1.0.0"

func main() {
	log.SetFlags(0)
	log.SetPrefix("xmlstream: ")

	var (
		events      = flag.Bool("events", false, "print the event stream, one event per line")
		pretty      = flag.Bool("pretty", false, "pretty-print the document")
		indent      = flag.String("indent", "  ", "indent unit for -pretty")
		c14n        = flag.Bool("c14n", false, "write Canonical XML 1.0")
		excC14n     = flag.Bool("exc-c14n", false, "write Exclusive Canonical XML")
		comments    = flag.Bool("comments", false, "keep comments in canonical output")
		validate    = flag.Bool("validate", false, "parse and report the first well-formedness error")
		namespaces  = flag.Bool("namespaces", false, "resolve namespaces before dumping events")
		edition     = flag.Int("edition", 5, "XML 1.0 edition for name characters (4 or 5)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("xmlstream", version)
		return
	}

	in, err := readInput(flag.Arg(0))
	if err != nil {
		log.Fatal(err)
	}

	opts := []xmlstream.Option{xmlstream.WithIndent(*indent)}
	if *edition == 4 {
		opts = append(opts, xmlstream.WithEdition(xmlstream.EDITION_4))
	}
	if *namespaces {
		opts = append(opts, xmlstream.WithNamespaces(xmlstream.NAMESPACES_BOTH))
	}

	switch {
	case *c14n || *excC14n:
		mode := xmlstream.C14N_STANDARD
		if *excC14n {
			mode = xmlstream.C14N_EXCLUSIVE
		}
		out, err := xmlstream.Canonicalize(in, append(opts, xmlstream.WithC14N(mode, *comments))...)
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(out)
	case *validate:
		stream := xmlstream.HaltOnError(parserFor(in, opts))
		if err := xmlstream.Drain(stream); err != nil {
			log.Fatal(err)
		}
		fmt.Println("ok")
	case *events:
		evs, err := xmlstream.Events(in, opts...)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(xmlstream.DumpEvents(evs))
	default:
		evs, err := xmlstream.Events(in, opts...)
		if err != nil {
			log.Fatal(err)
		}
		out, err := xmlstream.Serialize(evs, append(opts, xmlstream.WithPretty(*pretty))...)
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(out)
		if !*pretty {
			fmt.Println()
		}
	}
}

func parserFor(in []byte, opts []xmlstream.Option) xmlstream.Stream {
	return xmlstream.NewParserSource(xmlstream.NewBytesSource(in), opts...)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
