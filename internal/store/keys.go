package store

import (
	"bytes"
	"fmt"
	"time"
)

// Key layout:
//
//	record:  {prefix}{id}
//	index:   {prefix}idx:{name}:{value}\x00{id}
//
// Index keys carry no value; the owning id is the key suffix after the NUL,
// so one index value can map to many records and a prefix scan returns them
// in value order.
const (
	indexMarker = "idx:"
	indexSep    = byte(0)
)

func recordKey(prefix, id string) []byte {
	return []byte(prefix + id)
}

// indexPrefix covers every key of one index.
func indexPrefix(prefix, indexName string) []byte {
	return []byte(prefix + indexMarker + indexName + ":")
}

// indexValuePrefix covers every key of one index value.
func indexValuePrefix(prefix, indexName, value string) []byte {
	key := indexPrefix(prefix, indexName)
	key = append(key, value...)
	return append(key, indexSep)
}

func indexKey(prefix, indexName, value, id string) []byte {
	return append(indexValuePrefix(prefix, indexName, value), id...)
}

// parseIndexKey splits an index key into its value and owning id.
func parseIndexKey(key, idxPrefix []byte) (value, id string, err error) {
	if !bytes.HasPrefix(key, idxPrefix) {
		return "", "", fmt.Errorf("invalid index key: missing prefix %q", idxPrefix)
	}
	remainder := key[len(idxPrefix):]
	sep := bytes.LastIndexByte(remainder, indexSep)
	if sep < 0 {
		return "", "", fmt.Errorf("invalid index key format: %q", key)
	}
	return string(remainder[:sep]), string(remainder[sep+1:]), nil
}

// isIndexKey reports whether key belongs to an index rather than a record.
func isIndexKey(key []byte, prefix string) bool {
	return bytes.HasPrefix(key[len(prefix):], []byte(indexMarker))
}

// sortableTime formats a timestamp so lexicographic order equals chronological order.
// Fixed-width nanoseconds (always 9 digits) keep entries in the same second ordered.
func sortableTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05") + fmt.Sprintf(".%09d", t.Nanosecond()) + "Z"
}
