// Package main provides a command-line utility to convert between kbin's
// binary container format and its text-XML form: a thin collaborator over
// the core library rather than a second implementation of it.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/scigolib/kbin"
	"github.com/scigolib/kbin/internal/core"
)

func main() {
	encodingLabel := flag.String("encoding", "", "string encoding override for binary output and -verify re-encoding (e.g. SHIFT-JIS, UTF-8)")
	printTree := flag.Bool("print", false, "print the decoded node tree instead of emitting text XML")
	verify := flag.Bool("verify", false, "re-encode decoded binary input and diff it against the original")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Println("Usage: kbindump [flags] <file.kbin|->")
		fmt.Println("Flags:")
		flag.PrintDefaults()
		return
	}

	data, err := readInput(args[0])
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	if isBinary(data) {
		runBinary(data, *printTree, *verify, *encodingLabel)
		return
	}
	runText(data, *encodingLabel)
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("Failed to close file: %v", cerr)
		}
	}()
	return io.ReadAll(f)
}

func isBinary(data []byte) bool {
	return len(data) > 0 && data[0] == core.Signature
}

func runBinary(data []byte, printTree, verify bool, encodingLabel string) {
	node, err := kbin.Decode(data)
	if err != nil {
		log.Fatalf("Failed to decode binary input: %v", err)
	}

	if printTree {
		if err := kbin.Print(os.Stdout, node); err != nil {
			log.Fatalf("Failed to print node tree: %v", err)
		}
		return
	}

	out, err := kbin.ToXML(node)
	if err != nil {
		log.Fatalf("Failed to render text XML: %v", err)
	}
	if _, err := os.Stdout.Write(out); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
	fmt.Println()

	if verify {
		verifyRoundTrip(data, node, encodingLabel)
	}
}

func runText(data []byte, encodingLabel string) {
	node, err := kbin.FromXML(data)
	if err != nil {
		log.Fatalf("Failed to parse text XML: %v", err)
	}

	opts := kbin.DefaultOptions()
	if encodingLabel != "" {
		enc, err := core.EncodingFromLabel(encodingLabel)
		if err != nil {
			log.Fatalf("Invalid encoding: %v", err)
		}
		opts.Encoding = enc
	}

	out, err := kbin.Encode(node, opts)
	if err != nil {
		log.Fatalf("Failed to encode binary output: %v", err)
	}
	if _, err := os.Stdout.Write(out); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

// verifyRoundTrip re-encodes node with the options recovered from the
// original container and reports the first mismatching offset, split
// between the node and data sections.
func verifyRoundTrip(original []byte, node *kbin.Node, encodingLabel string) {
	r, err := core.NewReader(original)
	if err != nil {
		log.Fatalf("Failed to re-read original header for verification: %v", err)
	}

	opts := kbin.Options{Compression: r.Compression(), Encoding: r.Encoding()}
	if encodingLabel != "" {
		enc, err := core.EncodingFromLabel(encodingLabel)
		if err != nil {
			log.Fatalf("Invalid encoding: %v", err)
		}
		opts.Encoding = enc
	}

	reencoded, err := kbin.Encode(node, opts)
	if err != nil {
		log.Fatalf("Failed to re-encode for verification: %v", err)
	}

	if bytes.Equal(original, reencoded) {
		fmt.Fprintln(os.Stderr, "verify: round-trip matches byte-for-byte")
		return
	}

	offset, section := firstMismatch(original, reencoded)
	fmt.Fprintf(os.Stderr, "verify: mismatch at %s offset %d (original=0x%02x reencoded=0x%02x)\n",
		section, offset, byteAt(original, offset), byteAt(reencoded, offset))
}

func byteAt(data []byte, offset int) byte {
	if offset < 0 || offset >= len(data) {
		return 0
	}
	return data[offset]
}

// firstMismatch returns the absolute offset of the first differing byte and
// names which section (header/node/data) it falls in.
func firstMismatch(a, b []byte) (int, string) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i, sectionName(a, i)
		}
	}
	return n, sectionName(a, n)
}

func sectionName(data []byte, offset int) string {
	if offset < 8 {
		return "header"
	}
	if len(data) < 8 {
		return "header"
	}
	lenNode := int(data[4])<<24 | int(data[5])<<16 | int(data[6])<<8 | int(data[7])
	if offset < 8+lenNode {
		return "node"
	}
	return "data"
}
