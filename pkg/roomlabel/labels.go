// Package roomlabel implements the room-label glossary of §6.5: a fixed
// table of fourteen canonical labels plus fallback and lookup rules.
package roomlabel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valetudo/vendormaster/internal/rpcerr"
)

// names is the canonical id→name table for labels 1-14.
var names = map[int]string{
	1:  "living_room",
	2:  "dining_room",
	3:  "bedroom",
	4:  "study",
	5:  "kitchen",
	6:  "bathroom",
	7:  "laundry",
	8:  "lounge",
	9:  "storeroom",
	10: "kids_room",
	11: "sunroom",
	12: "corridor",
	13: "balcony",
	14: "gym",
}

var ids = func() map[string]int {
	m := make(map[string]int, len(names))
	for id, name := range names {
		m[name] = id
	}
	return m
}()

// NameFromID stringifies a label id: the canonical name for 1-14, or
// "label_<id>" for anything else.
func NameFromID(id int) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("label_%d", id)
}

// normalize lowercases input and folds hyphens/whitespace to underscores.
func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	fields := strings.Fields(s)
	return strings.Join(fields, "_")
}

// IDFromName resolves a label name (or numeric string) to its id.
// Pure-digit input accepts the corresponding id directly. Empty input and
// unmapped names fail with a listing of accepted names.
func IDFromName(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, rpcerr.Newf(rpcerr.Domain, "empty room label name; accepted names: %s", acceptedNames())
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		return n, nil
	}
	norm := normalize(trimmed)
	if id, ok := ids[norm]; ok {
		return id, nil
	}
	return 0, rpcerr.Newf(rpcerr.Domain, "unknown room label %q; accepted names: %s", input, acceptedNames())
}

func acceptedNames() string {
	out := make([]string, 0, len(names))
	for id := 1; id <= len(names); id++ {
		out = append(out, names[id])
	}
	return strings.Join(out, ", ")
}
