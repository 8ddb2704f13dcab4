package jexl

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// resolveCharset looks name up in the IANA charset registry, returning nil
// for an empty name or "UTF-8" (JEXL source is UTF-8 by default, so no
// transcoding step is needed). Grounded on the teacher's CompareText-
// adjacent use of golang.org/x/text for locale-aware text handling,
// extended here to the sibling encoding subpackage for spec.md §6's
// Engine.setCharset.
func resolveCharset(name string) (encoding.Encoding, error) {
	if name == "" || name == "UTF-8" || name == "utf-8" {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("jexl: unknown charset %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("jexl: unknown charset %q", name)
	}
	return enc, nil
}

// decodeSource converts raw bytes read under dec to a UTF-8 string for
// lexing. dec==nil means the bytes are already UTF-8.
func decodeSource(dec encoding.Encoding, raw []byte) (string, error) {
	if dec == nil {
		return string(raw), nil
	}
	out, err := dec.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("jexl: charset decode: %w", err)
	}
	return string(out), nil
}
