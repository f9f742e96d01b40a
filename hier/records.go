package hier

// ScopeRecord is a VCD_SCOPE hierarchy entry.
type ScopeRecord struct {
	Type          string `json:"type"`
	ScopeTypeNum  uint8  `json:"scope_type_num"`
	ScopeTypeName string `json:"scope_type_name"`
	Name          string `json:"name"`
	Component     string `json:"component"`
	Offset        int    `json:"offset"`
}

// UpscopeRecord is a VCD_UPSCOPE hierarchy entry.
type UpscopeRecord struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
}

// AttrBeginRecord is a GEN_ATTRBEGIN hierarchy entry. Exactly one of
// (AttrStr, AttrValue) or (AttrValue1, AttrValue2) is populated, per
// Subtype: subtypes 4 and 5 (SOURCESTEM/SOURCEISTEM) carry a pair of
// ULEB128 values; every other subtype carries a name string and one
// ULEB128 value (spec.md §3).
type AttrBeginRecord struct {
	Type       string `json:"type"`
	AttrType   uint8  `json:"attrtype"`
	Subtype    uint8  `json:"subtype"`
	AttrStr    string `json:"attr_str,omitempty"`
	AttrValue  uint64 `json:"attr_value,omitempty"`
	AttrValue1 uint64 `json:"attr_value1,omitempty"`
	AttrValue2 uint64 `json:"attr_value2,omitempty"`
	Offset     int    `json:"offset"`
}

// AttrEndRecord is a GEN_ATTREND hierarchy entry.
type AttrEndRecord struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
}

// VarRecord is a variable-declaration hierarchy entry (tag in
// [VCD_EVENT..SV_SHORTREAL]).
type VarRecord struct {
	Type        string `json:"type"`
	VarTypeNum  uint8  `json:"var_type_num"`
	VarDirNum   uint8  `json:"var_dir_num"`
	VarTypeName string `json:"var_type_name"`
	Name        string `json:"name"`
	BitLength   uint64 `json:"bit_length"`
	Alias       uint64 `json:"alias"`
	IsAlias     bool   `json:"is_alias"`
	VarID       uint64 `json:"var_id"`
	Offset      int    `json:"offset"`
}

// Result is the output of a complete Parse call. Data holds a mix of
// *ScopeRecord, *UpscopeRecord, *AttrBeginRecord, *AttrEndRecord, and
// *VarRecord values, each JSON-marshaled with only the keys relevant to
// its own record type.
type Result struct {
	TotalLen int   `json:"total_len"`
	Consumed int   `json:"consumed"`
	Data     []any `json:"data"`
	Stopped  bool  `json:"stopped"`
}
