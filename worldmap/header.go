// Package worldmap implements the WorldStream body: the content header that
// bootstraps a session's content.Map, and the tile grid itself (floors,
// ores, and block entities, each run-length encoded).
package worldmap

import (
	"mindustry-netclient/content"
	"mindustry-netclient/wire"
)

// ReadContentHeader decodes a WorldStream's content header into a category ->
// ordered-name-list map suitable for content.Map.SetAll. tables.ContentTypes
// resolves the per-entry category index; the names themselves are read off
// the wire, not looked up anywhere.
func ReadContentHeader(r *wire.Reader, tables *content.SideTables) (map[string][]string, error) {
	result := make(map[string][]string)

	mapped := r.Byte()
	for i := uint8(0); i < mapped; i++ {
		typeIndex := int(r.Byte())
		if typeIndex < 0 || typeIndex >= len(tables.ContentTypes) {
			return nil, ErrUnknownContentTypeIndex{Index: typeIndex}
		}
		category := tables.ContentTypes[typeIndex]

		count := r.Int16()
		names := make([]string, 0, max16(count))
		for j := int16(0); j < count; j++ {
			name, _ := r.ReadString()
			names = append(names, name)
		}
		result[category] = names
	}

	return result, nil
}

// ErrUnknownContentTypeIndex is returned when a content header entry names a
// category index outside the loaded content_types.json table.
type ErrUnknownContentTypeIndex struct{ Index int }

func (e ErrUnknownContentTypeIndex) Error() string {
	return "worldmap: unknown content type index in content header"
}

func max16(n int16) int16 {
	if n < 0 {
		return 0
	}
	return n
}
