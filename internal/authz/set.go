package authz

// PolicySet bundles one policy per resource type over a shared finder.
type PolicySet struct {
	Category     *CategoryPolicy
	Entry        *EntryPolicy
	Organization *OrganizationPolicy
	Indicator    *IndicatorPolicy
	Source       *SourcePolicy
	Variable     *VariablePolicy
	Profile      *ProfilePolicy
}

func NewPolicySet(finder ResourceFinder) *PolicySet {
	return &PolicySet{
		Category:     NewCategoryPolicy(finder),
		Entry:        NewEntryPolicy(finder),
		Organization: NewOrganizationPolicy(finder),
		Indicator:    NewIndicatorPolicy(),
		Source:       NewSourcePolicy(finder),
		Variable:     NewVariablePolicy(finder),
		Profile:      NewProfilePolicy(),
	}
}
