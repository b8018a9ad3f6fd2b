package repository

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

func datatypePrefix(gid uuid.UUID) string {
	return "dt/" + gid.String() + "/"
}

func metaKey(gid uuid.UUID) string {
	return datatypePrefix(gid) + "meta"
}

func arrayPrefix(gid uuid.UUID, field string) string {
	return datatypePrefix(gid) + "arr/" + field + "/"
}

func chunkKey(prefix string, i int) string {
	return fmt.Sprintf("%s%06d", prefix, i)
}

func indexPrefix(tag string) string {
	return "idx/" + tag + "/"
}

func indexKey(tag string, gid uuid.UUID) string {
	return indexPrefix(tag) + gid.String()
}

func gidFromIndexKey(key string) (uuid.UUID, error) {
	return uuid.Parse(key[strings.LastIndex(key, "/")+1:])
}
