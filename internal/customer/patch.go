package customer

// Patch carries the updatable customer fields. A nil field means "leave
// unchanged" for partial (PATCH) updates. Email and ID are immutable and
// deliberately absent.
type Patch struct {
	FullName *string `json:"fullName"`
	Phone    *string `json:"phone"`
}

// Complete reports whether every updatable field is present, as full (PUT)
// updates require.
func (p Patch) Complete() bool {
	return p.FullName != nil && p.Phone != nil
}

// apply merges the non-nil patch fields into c. The field list is explicit:
// new updatable fields must be added here by hand, which keeps the merge
// reviewable and immune to accidentally exposed struct members.
func (p Patch) apply(c *Customer) {
	if p.FullName != nil {
		c.FullName = *p.FullName
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
}
