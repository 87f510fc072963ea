package catalog

// ImportOverrides are caller-supplied values that replace suggested metadata on import.
// Nil and empty fields keep the suggestion.
type ImportOverrides struct {
	AssetName   string       `json:"asset_name,omitempty"`
	Description string       `json:"description,omitempty"`
	Tags        []string     `json:"tags,omitempty"`
	AccessLevel *AccessLevel `json:"access_level,omitempty"`
	IsPublic    bool         `json:"is_public,omitempty"`
}

// Apply copies the overrides onto a record. An asset flagged sensitive stays
// Restricted whatever access level was requested.
func (o ImportOverrides) Apply(record *AssetRecord) {
	if o.AssetName != "" {
		record.Name = o.AssetName
	}
	if o.Description != "" {
		record.Description = o.Description
	}
	if o.Tags != nil {
		record.Tags = append([]string(nil), o.Tags...)
	}
	if o.AccessLevel != nil {
		record.AccessLevel = *o.AccessLevel
	}
	record.IsPublic = o.IsPublic
	if record.IsSensitive {
		record.AccessLevel = AccessRestricted
	}
}

// ParseAccessLevel accepts the two catalog access levels by name
func ParseAccessLevel(s string) (AccessLevel, bool) {
	switch AccessLevel(s) {
	case AccessInternal, AccessRestricted:
		return AccessLevel(s), true
	}
	return "", false
}
