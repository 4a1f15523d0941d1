// Author: momentics <momentics@gmail.com>
//
// Filename composition for per-ring savefiles, ported from the stem/suffix
// splitting rxtx.c performs on the user-supplied -w template.

package pcapfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolve composes the savefile name a ring with the given index should
// write to. "-" (standard output) is never indexed: every ring shares it.
// Otherwise the template's last path element is split into stem and
// extension at its final dot, and "-<idx>" is inserted between them:
//
//	Resolve("out.pcap", 3) == "out-3.pcap"
//	Resolve("out", 3)      == "out-3"
//	Resolve(".hidden", 3)  == ".hidden-3"
func Resolve(template string, idx int) string {
	if template == "-" {
		return "-"
	}

	dir := filepath.Dir(template)
	base := filepath.Base(template)

	stem, ext := splitStemExt(base)
	indexed := fmt.Sprintf("%s-%d%s", stem, idx, ext)

	if dir == "." && !strings.ContainsAny(template, `/\`) {
		return indexed
	}
	return filepath.Join(dir, indexed)
}

// splitStemExt splits base at its last dot, treating a dot at position 0
// (dotfiles such as ".hidden") as part of the stem rather than a suffix
// marker.
func splitStemExt(base string) (stem, ext string) {
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return base, ""
	}
	return base[:i], base[i:]
}
