package analyze

// Merge unions any number of findings records. Values deduplicate
// exactly (case-sensitive) and keep first-seen order, so merging the
// same records in the same order is stable.
func Merge(records ...FindingsRecord) FindingsRecord {
	var out FindingsRecord
	seen := map[string]map[string]bool{}

	add := func(field string, dst *[]string, vals []string) {
		set := seen[field]
		if set == nil {
			set = map[string]bool{}
			seen[field] = set
		}
		for _, v := range vals {
			if v == "" || set[v] {
				continue
			}
			set[v] = true
			*dst = append(*dst, v)
		}
	}

	for _, r := range records {
		add("protocols", &out.Protocols, r.Protocols)
		add("field_strengths", &out.FieldStrengths, r.FieldStrengths)
		add("sequences", &out.Sequences, r.Sequences)
		add("conditions", &out.Conditions, r.Conditions)
		add("special_considerations", &out.SpecialConsiderations, r.SpecialConsiderations)
		add("key_findings", &out.KeyFindings, r.KeyFindings)
	}
	return out
}
