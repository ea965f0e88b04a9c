package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// HashKey generates MD5 hash of a key.
func HashKey(key string) string {
	hasher := md5.New()
	hasher.Write([]byte(key))
	return hex.EncodeToString(hasher.Sum(nil))
}

// Key builds the memoization key for op called with positional args and
// keyword args. Keyword args are rendered in sorted name order so that
// callers passing the same map in any order hit the same entry. Every value
// is quoted and positional and keyword sections are kept apart, so no
// separator inside a value can make two different calls share a key.
//
// Arguments are rendered with %v, so they must format deterministically:
// strings, integers, booleans and pre-formatted dates are fine. Floats,
// maps, slices of maps and pointers are not.
func Key(op string, args []any, kwargs map[string]any) string {
	names := make([]string, 0, len(kwargs))
	for name := range kwargs {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(strconv.Quote(op))
	b.WriteString("(")
	for i, arg := range args {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.Quote(fmt.Sprint(arg)))
	}
	b.WriteString(";")
	for i, name := range names {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.Quote(name))
		b.WriteString("=")
		b.WriteString(strconv.Quote(fmt.Sprint(kwargs[name])))
	}
	b.WriteString(")")

	return op + ":" + HashKey(b.String())
}
