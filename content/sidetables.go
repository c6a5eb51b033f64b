package content

import (
	"encoding/json"
	"os"
)

// BlockParams is the legacy has-items/has-power/has-liquids bitmask source
// for block entities whose base state never gained the extended header (the
// rotation byte's bit 7 was never set for that block kind historically).
type BlockParams struct {
	HasItems   bool `json:"has_items"`
	HasPower   bool `json:"has_power"`
	HasLiquids bool `json:"has_liquids"`
}

// SideTables bundles the three static JSON reference tables this module
// treats as read-only external input. The optional persisted content map
// snapshot is not part of it; LoadPersistedContentMap reads that separately.
type SideTables struct {
	// ContentTypes maps the category index used in a WorldStream's content
	// header to its category name.
	ContentTypes []string
	// BlockTypes maps a block id-name (as resolved through the content map)
	// to the block-type class name used to route SpecificBlockState decoding.
	BlockTypes map[string]string
	// BlockParams is keyed by block-type class name.
	BlockParams map[string]BlockParams
}

// LoadSideTables reads content_types.json, block_types.json and
// block_params.json from dir.
func LoadSideTables(dir string) (*SideTables, error) {
	var st SideTables

	if err := readJSON(dir+"/content_types.json", &st.ContentTypes); err != nil {
		return nil, err
	}
	if err := readJSON(dir+"/block_types.json", &st.BlockTypes); err != nil {
		return nil, err
	}
	if err := readJSON(dir+"/block_params.json", &st.BlockParams); err != nil {
		return nil, err
	}
	return &st, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// LoadPersistedContentMap reads an optional content-map.json snapshot. A
// missing file is not an error — it just means there is no prior session's
// map to resolve against, and a Map.Name lookup in a category that no
// WorldStream has populated yet returns ErrUnknownCategory.
func LoadPersistedContentMap(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var m map[string][]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// SavePersistedContentMap writes a fresh content-map.json snapshot, as the
// source does on every WorldStream.
func SavePersistedContentMap(path string, m map[string][]string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
